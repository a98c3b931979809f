//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/linealab/linea/internal/document"
	"github.com/linealab/linea/internal/engine"
	"github.com/linealab/linea/internal/export"
)

var drawing *engine.Drawing

func main() {
	drawing = engine.New()

	kernel := js.Global().Get("Object").New()

	// --- Commands (frontend → kernel) ---
	kernel.Set("sendEvent", js.FuncOf(sendEvent))
	kernel.Set("loadDocument", js.FuncOf(loadDocument))
	kernel.Set("loadSample", js.FuncOf(loadSample))
	kernel.Set("onChange", js.FuncOf(onChange))

	// --- Queries (frontend ← kernel) ---
	kernel.Set("toolState", js.FuncOf(toolState))
	kernel.Set("dataState", js.FuncOf(dataState))
	kernel.Set("saveDocument", js.FuncOf(saveDocument))
	kernel.Set("exportSVG", js.FuncOf(exportSVG))

	js.Global().Set("lineaKernel", kernel)
	js.Global().Set("lineaWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func sendEvent(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing event JSON"})
	}

	var ev engine.Event
	if err := json.Unmarshal([]byte(args[0].String()), &ev); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	changed := drawing.SendEvent(ev)
	return js.ValueOf(map[string]interface{}{"changed": changed})
}

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	if err := document.Load([]byte(args[0].String()), drawing); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSample(this js.Value, args []js.Value) interface{} {
	drawing = document.Sample()
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// onChange registers a JS callback pinged after every state change.
func onChange(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return js.ValueOf(-1)
	}
	cb := args[0]
	id := drawing.AddListener(func() {
		cb.Invoke()
	})
	return js.ValueOf(id)
}

// --- Query Handlers ---

func toolState(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(drawing.ToolState())
	return js.ValueOf(string(data))
}

func dataState(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(drawing.DataState())
	return js.ValueOf(string(data))
}

func saveDocument(this js.Value, args []js.Value) interface{} {
	data, err := document.Encode(drawing)
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(string(data))
}

func exportSVG(this js.Value, args []js.Value) interface{} {
	w, h := 800.0, 600.0
	if len(args) >= 2 {
		w = args[0].Float()
		h = args[1].Float()
	}
	svg := export.SVG(drawing.DataState().Objects, export.DefaultFrame(w, h))
	return js.ValueOf(string(svg))
}
