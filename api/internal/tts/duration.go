package tts

import (
	"bytes"
	"errors"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// Duration decodes the MP3 header stream to find the playback length.
func Duration(audio []byte) (time.Duration, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(audio))
	if err != nil {
		return 0, err
	}
	rate := dec.SampleRate()
	n := dec.Length()
	if rate <= 0 || n <= 0 {
		return 0, errors.New("unknown mp3 length")
	}
	// decoded stream is 16-bit stereo: 4 bytes per sample frame
	frames := n / 4
	return time.Duration(frames) * time.Second / time.Duration(rate), nil
}
