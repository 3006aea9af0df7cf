package main

import (
	"fmt"

	"github.com/akmonengine/orbit/camera"
)

// keymap binds the keys of the 3D scenes to camera intents
var keymap = map[rune]camera.Intent{
	'w': camera.PanForward,
	's': camera.PanBack,
	'a': camera.PanLeft,
	'd': camera.PanRight,
	'q': camera.PanUp,
	'e': camera.PanDown,
	'j': camera.OrbitLeft,
	'l': camera.OrbitRight,
	'i': camera.TiltUp,
	'k': camera.TiltDown,
}

// parseKeys turns a key sequence into intents, whitespace is ignored
func parseKeys(keys string) ([]camera.Intent, error) {
	intents := make([]camera.Intent, 0, len(keys))
	for pos, key := range keys {
		switch key {
		case ' ', '\t', '\n':
			continue
		}
		intent, ok := keymap[key]
		if !ok {
			return nil, fmt.Errorf("unbound key %q at position %d", key, pos)
		}
		intents = append(intents, intent)
	}

	return intents, nil
}
