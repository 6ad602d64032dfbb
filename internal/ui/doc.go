// Package ui contains the Bubble Tea program that renders the session
// navigator. The Model owns presentation only: every state change goes
// through a named operation on nav.Controller, and the controller's result
// messages are routed back to it unchanged.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. While the
//     new/rename form is open, key presses go to the form first.
//   - Everything else is routed through a typed handler registry: key
//     presses to the key map (keys.go, navigation.go, input.go), controller
//     messages to nav.Controller.Update, and ticker events to the preview
//     refresh.
//   - finishUpdate reconciles the input mode with controller state that may
//     have changed underneath it, for example a windows screen that closed
//     because its session vanished.
//
// Backend interactions:
//   - A backend.Ticker publishes preview ticks on a channel;
//     waitForBackendEvent turns each one into a message and is re-armed
//     after every event.
//   - Gateway work never runs inside Update. Controller operations return
//     tea.Cmd values that run on Bubble Tea's goroutines.
//
// The Harness type drives a Model synchronously so tests can exercise the
// full key-to-gateway path against testutil.FakeGateway.
package ui
