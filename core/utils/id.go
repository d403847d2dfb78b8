package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// EventIDLength is the length of generated event ids; short enough to share by hand.
const EventIDLength = 10

func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, EventIDLength)
	if err != nil {
		return ""
	}
	return id
}

// IsValidID reports whether s looks like an id produced by GenerateID.
func IsValidID(s string) bool {
	if len(s) != EventIDLength {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z') {
			return false
		}
	}
	return true
}
