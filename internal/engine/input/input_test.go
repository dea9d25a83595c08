package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestButtonEdges(t *testing.T) {
	in := New()

	in.beginFrame()
	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 10, Y: 20})
	if !in.IsButtonPressed(sdl.BUTTON_LEFT) || !in.IsButtonDown(sdl.BUTTON_LEFT) {
		t.Fatal("left should be pressed and down")
	}
	if x, y := in.MousePosition(); x != 10 || y != 20 {
		t.Errorf("MousePosition() = %d, %d", x, y)
	}

	in.beginFrame()
	if in.IsButtonPressed(sdl.BUTTON_LEFT) {
		t.Error("pressed must only last one frame")
	}
	if !in.IsButtonDown(sdl.BUTTON_LEFT) {
		t.Error("left should still be held")
	}

	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT, X: 12, Y: 20})
	if !in.IsButtonReleased(sdl.BUTTON_LEFT) || in.IsButtonDown(sdl.BUTTON_LEFT) {
		t.Error("left should be released")
	}
}

func TestKeyPressedIgnoresRepeat(t *testing.T) {
	in := New()

	in.beginFrame()
	in.handle(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_RETURN}})
	if !in.IsKeyPressed(sdl.SCANCODE_RETURN) {
		t.Fatal("return should be pressed")
	}

	in.beginFrame()
	in.handle(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_RETURN}})
	if in.IsKeyPressed(sdl.SCANCODE_RETURN) {
		t.Error("auto-repeat must not count as a press")
	}
	if !in.IsKeyDown(sdl.SCANCODE_RETURN) {
		t.Error("return should be held")
	}
}

func TestQuitAndWheel(t *testing.T) {
	in := New()
	in.beginFrame()

	if in.handle(&sdl.MouseWheelEvent{Y: 2}) {
		t.Error("wheel must not quit")
	}
	if in.Wheel() != 2 {
		t.Errorf("Wheel() = %d, want 2", in.Wheel())
	}
	if !in.handle(&sdl.QuitEvent{}) {
		t.Error("quit event should report quit")
	}
}
