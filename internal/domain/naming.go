package domain

import "strings"

// AudioExtension is the extension of every published artifact.
const AudioExtension = ".mp3"

// BaseName strips everything from the first "." of an object key.
func BaseName(key string) string {
	if i := strings.Index(key, "."); i >= 0 {
		return key[:i]
	}
	return key
}

// ArtifactName is the logical name of the audio artifact for one language.
func ArtifactName(base, label string) string {
	return base + "_" + label + AudioExtension
}
