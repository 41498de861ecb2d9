//go:build js && wasm

// Command vitrine-wasm exposes the query surface to a host page.
//
// The page calls vitrineInit(config, bytes) with a loader configuration object
// and a Uint8Array holding the catalog blob. The result carries ok and reason
// and, when ok, the functions all(), search(query) and render(query), each
// returning a JSON string.
package main

import (
	"fmt"
	"syscall/js"
)

func main() {
	js.Global().Set("vitrineInit", js.FuncOf(vitrineInit))
	select {}
}

func vitrineInit(_ js.Value, args []js.Value) (result any) {
	// A panic here would surface in the page as a thrown exception.
	defer func() {
		if r := recover(); r != nil {
			result = failed(fmt.Sprintf("vitrineInit: %v", r))
		}
	}()

	if len(args) < 2 {
		return failed("vitrineInit(config, bytes) takes two arguments")
	}
	if !args[1].InstanceOf(js.Global().Get("Uint8Array")) {
		return failed(fmt.Sprintf("catalog bytes must be a Uint8Array, got %s", args[1].Type()))
	}

	configJSON := args[0]
	if configJSON.Type() != js.TypeString {
		configJSON = js.Global().Get("JSON").Call("stringify", configJSON)
	}
	blob := make([]byte, args[1].Length())
	js.CopyBytesToGo(blob, args[1])

	b, resp := newBridge(configJSON.String(), blob)
	if !resp.OK {
		return failed(resp.Reason)
	}

	return js.ValueOf(map[string]any{
		"ok": true,
		"all": js.FuncOf(func(js.Value, []js.Value) any {
			return b.all()
		}),
		"search": js.FuncOf(func(_ js.Value, args []js.Value) any {
			return b.search(stringArg(args))
		}),
		"render": js.FuncOf(func(_ js.Value, args []js.Value) any {
			return b.render(stringArg(args))
		}),
	})
}

func failed(reason string) js.Value {
	return js.ValueOf(map[string]any{"ok": false, "reason": reason})
}

func stringArg(args []js.Value) string {
	if len(args) == 0 || args[0].Type() != js.TypeString {
		return ""
	}
	return args[0].String()
}
