//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/btouchard/qlang/internal/qlang/interpreter"
	"github.com/btouchard/qlang/internal/session"
)

func main() {
	js.Global().Set("runQlang", js.FuncOf(runQlangWrapper))

	// Keep the program alive
	select {}
}

// runQlangWrapper wraps the evaluation with panic recovery
func runQlangWrapper(this js.Value, args []js.Value) (ret interface{}) {
	defer func() {
		if r := recover(); r != nil {
			ret = js.ValueOf(toJS(nil, []string{fmt.Sprintf("panic: %v", r)}))
		}
	}()

	if len(args) != 1 {
		return js.ValueOf(toJS(nil, []string{"expected 1 argument (source code)"}))
	}

	res := session.Run(args[0].String(), session.WithInput(interpreter.InputFunc(browserPrompt)))
	return js.ValueOf(toJS(res.Stdout, res.Stderr))
}

// browserPrompt answers lire with window.prompt. Cancel gives rien.
func browserPrompt(message string) (string, bool) {
	if message == "" {
		message = "Entrée"
	}
	v := js.Global().Call("prompt", message)
	if v.IsNull() || v.IsUndefined() {
		return "", false
	}
	return v.String(), true
}

func toJS(stdout, stderr []string) map[string]interface{} {
	return map[string]interface{}{
		"stdout": jsLines(stdout),
		"stderr": jsLines(stderr),
	}
}

// jsLines converts lines to a JS array
func jsLines(lines []string) []interface{} {
	out := make([]interface{}, len(lines))
	for i, l := range lines {
		out[i] = l
	}
	return out
}
