//go:build js && wasm

package main

import (
	"bytes"
	"fmt"
	"syscall/js"

	"clexer/colors"
	"clexer/internal/context"
	"clexer/internal/render"
	"clexer/internal/source"
)

const virtualFilePath = "main.c"

// scanCode tokenizes code and returns the token listing and the diagnostics
// rendered as HTML
func scanCode(code string) (listing string, diags string, ok bool) {
	ctx := context.New(nil)

	// no file system: register the code as a virtual file
	file := ctx.AddFile(virtualFilePath, source.FromString(code))
	ctx.ScanFile(file)
	ctx.CheckDirectives(file)

	var buf bytes.Buffer
	if err := render.Write(&buf, "text", []render.File{{Path: virtualFilePath, Tokens: file.Tokens}}); err != nil {
		return "", err.Error(), false
	}

	return buf.String(), ctx.Diagnostics.EmitAllToHTML(), !ctx.HasErrors()
}

// clexerScanJS is the JavaScript-callable function
func clexerScanJS(this js.Value, args []js.Value) (result interface{}) {
	defer func() {
		if r := recover(); r != nil {
			js.Global().Get("console").Call("error", "panic in scanner:", fmt.Sprint(r))
			result = map[string]interface{}{
				"success": false,
				"error":   fmt.Sprint(r),
			}
		}
	}()

	if len(args) < 1 {
		return map[string]interface{}{
			"success": false,
			"error":   "Expected 1 argument (code string)",
		}
	}

	listing, diags, ok := scanCode(args[0].String())
	return map[string]interface{}{
		"success":     ok,
		"output":      listing,
		"diagnostics": diags,
	}
}

func main() {
	colors.SetEnabled(true)

	js.Global().Set("clexerScan", js.FuncOf(clexerScanJS))
	fmt.Println("clexer WASM scanner ready")

	// keep the program running
	select {}
}
