package interpreter

import (
	"fmt"

	"github.com/btouchard/qlang/internal/qlang/runtime"
)

// builtins are visible from every program. They live in a scope above the
// globals, so a program may shadow them.
var builtins = []*runtime.BuiltinValue{
	{Name: "taille", Arity: 1, Fn: taille},
}

func registerBuiltins(env *runtime.Environment) {
	for _, b := range builtins {
		_ = env.Declare(b.Name, b)
	}
}

// taille returns the number of elements of an array.
func taille(args []runtime.Value) (runtime.Value, error) {
	array, ok := args[0].(*runtime.ArrayValue)
	if !ok {
		return nil, fmt.Errorf("La fonction 'taille' attend un tableau, mais a reçu une valeur de type '%s'", args[0].Kind())
	}
	return runtime.Number(float64(len(array.Elements))), nil
}
