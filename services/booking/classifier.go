package booking

import "go.mongodb.org/mongo-driver/bson/primitive"

// KeyFormat is the guessed home store of a record key.
type KeyFormat int

const (
	// KeyPrimary is the clinic's short fixed-length hex shape.
	KeyPrimary KeyFormat = iota
	// KeySecondary is any other shape, notably our hyphenated UUIDs.
	KeySecondary
)

// Classify inspects an opaque record key and guesses which store issued it.
// Clinic keys are 24-char hex tokens, so the ObjectID parser is the exact
// shape check. This is a heuristic: a wrong guess surfaces later as a clinic
// rejection and is recovered by the fallback path, never treated as fatal.
func Classify(key string) KeyFormat {
	if _, err := primitive.ObjectIDFromHex(key); err == nil {
		return KeyPrimary
	}
	return KeySecondary
}
