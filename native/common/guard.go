package common

import "errors"

// ErrModulePaused is returned when a mutation is attempted against a module
// that operations staff have halted.
var ErrModulePaused = errors.New("module paused")

// PauseView exposes the pause switches consulted before any state mutation.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard rejects the operation when the named module is paused. A nil view or
// empty module name means no pause control is wired and the guard passes.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}
