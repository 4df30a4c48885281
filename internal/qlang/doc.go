// Package qlang groups the stages of the language: token, lexer, ast,
// parser, runtime and interpreter. A program goes through them in that
// order; errors from every stage render through the errors package.
package qlang
