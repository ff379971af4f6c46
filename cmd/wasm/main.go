//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/arcboard/arcboard/backend-go/internal/editor"
	"github.com/arcboard/arcboard/backend-go/internal/interact"
)

var ed *editor.Editor

func main() {
	ed = editor.NewWithSampleBoard(interact.DefaultConfig())

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	api.Set("loadBoard", js.FuncOf(loadBoard))
	api.Set("setZoom", js.FuncOf(setZoom))
	api.Set("setOffset", js.FuncOf(setOffset))
	api.Set("setCanvasRect", js.FuncOf(setCanvasRect))
	api.Set("setContentBounds", js.FuncOf(setContentBounds))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("cancelGesture", js.FuncOf(cancelGesture))
	api.Set("setSelection", js.FuncOf(setSelection))
	api.Set("groupSelection", js.FuncOf(groupSelection))
	api.Set("ungroupSelection", js.FuncOf(ungroupSelection))
	api.Set("undo", js.FuncOf(undo))
	api.Set("redo", js.FuncOf(redo))
	api.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← backend) ---
	api.Set("getBoard", js.FuncOf(getBoard))
	api.Set("getState", js.FuncOf(getState))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	api.Set("getSelectionOrientedBox", js.FuncOf(getSelectionOrientedBox))
	api.Set("getHandles", js.FuncOf(getHandles))
	api.Set("getGuidelines", js.FuncOf(getGuidelines))
	api.Set("getMarquee", js.FuncOf(getMarquee))
	api.Set("hitTest", js.FuncOf(hitTest))

	js.Global().Set("arcboardEditor", api)
	js.Global().Set("arcboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// eventsJSON serializes transition events for the frontend event loop.
func eventsJSON(events []interact.Event) interface{} {
	if len(events) == 0 {
		return js.ValueOf("[]")
	}
	data, err := json.Marshal(events)
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(string(data))
}

// --- Command Handlers ---

func loadBoard(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing board JSON"})
	}
	if err := ed.LoadBoard(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func setZoom(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.SetZoom(args[0].Float())
	return nil
}

func setOffset(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.SetOffset(args[0].Float(), args[1].Float())
	return nil
}

func setCanvasRect(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return nil
	}
	ed.SetCanvasRect(args[0].Float(), args[1].Float(), args[2].Float(), args[3].Float())
	return nil
}

func setContentBounds(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return nil
	}
	ed.SetContentBounds(args[0].Float(), args[1].Float(), args[2].Float(), args[3].Float())
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("[]")
	}
	additive := len(args) > 2 && args[2].Truthy()
	return eventsJSON(ed.PointerDown(args[0].Float(), args[1].Float(), additive))
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	additive := len(args) > 2 && args[2].Truthy()
	ed.PointerMove(args[0].Float(), args[1].Float(), additive)
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("[]")
	}
	return eventsJSON(ed.PointerUp(args[0].Float(), args[1].Float()))
}

func cancelGesture(this js.Value, args []js.Value) interface{} {
	return eventsJSON(ed.CancelGesture())
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		ed.SetSelection(nil)
		return nil
	}

	arr := args[0]
	length := arr.Length()
	ids := make([]string, length)
	for i := 0; i < length; i++ {
		ids[i] = arr.Index(i).String()
	}
	ed.SetSelection(ids)
	return nil
}

func groupSelection(this js.Value, args []js.Value) interface{} {
	id, err := ed.GroupSelection()
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "groupId": id})
}

func ungroupSelection(this js.Value, args []js.Value) interface{} {
	freed := ed.UngroupSelection()
	data, _ := json.Marshal(freed)
	return js.ValueOf(string(data))
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Redo())
}

func tick(this js.Value, args []js.Value) interface{} {
	return eventsJSON(ed.Tick())
}

// --- Query Handlers ---

func getBoard(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.BoardJSON())
}

func getState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.State())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetSelection())
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetSelectionBounds())
}

func getSelectionOrientedBox(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetSelectionOrientedBox())
}

func getHandles(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetHandles())
}

func getGuidelines(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetGuidelines())
}

func getMarquee(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.GetMarquee())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(ed.HitTest(args[0].Float(), args[1].Float()))
}
