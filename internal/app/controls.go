package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/fieldplot/internal/drawing"
	"github.com/Faultbox/fieldplot/internal/engine/input"
)

var buttonCodes = map[drawing.Button]uint8{
	drawing.ButtonLeft:  sdl.BUTTON_LEFT,
	drawing.ButtonRight: sdl.BUTTON_RIGHT,
}

var keyCodes = map[drawing.Key]sdl.Scancode{
	drawing.KeyEscape:    sdl.SCANCODE_ESCAPE,
	drawing.KeyEnter:     sdl.SCANCODE_RETURN,
	drawing.KeyBackspace: sdl.SCANCODE_BACKSPACE,
	drawing.Key1:         sdl.SCANCODE_1,
	drawing.Key2:         sdl.SCANCODE_2,
	drawing.Key3:         sdl.SCANCODE_3,
}

// drawingInput exposes the SDL input state to the drawing controller.
type drawingInput struct {
	in *input.Input
}

func (d drawingInput) IsButtonDown(b drawing.Button) bool {
	code, ok := buttonCodes[b]
	return ok && d.in.IsButtonDown(code)
}

func (d drawingInput) IsButtonPressed(b drawing.Button) bool {
	code, ok := buttonCodes[b]
	return ok && d.in.IsButtonPressed(code)
}

func (d drawingInput) IsButtonReleased(b drawing.Button) bool {
	code, ok := buttonCodes[b]
	return ok && d.in.IsButtonReleased(code)
}

func (d drawingInput) IsKeyPressed(k drawing.Key) bool {
	code, ok := keyCodes[k]
	return ok && d.in.IsKeyPressed(code)
}

func (d drawingInput) PointerPosition() (float32, float32) {
	x, y := d.in.MousePosition()
	return float32(x), float32(y)
}
