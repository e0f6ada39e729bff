package platform

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"

	"focusloop/internal/core/model"
)

// Note frequencies in Hz.
const (
	NoteC5 = 523.25
	NoteE5 = 659.25
	NoteG5 = 783.99
)

const (
	chimeSampleRate = 22050
	chimeToneLength = 150 * time.Millisecond
	chimeToneGap    = 50 * time.Millisecond
	chimeAttack     = 20 * time.Millisecond
	chimePeakGain   = 0.3
)

// ChimeNotes returns the rising sequence played when cycle finishes.
func ChimeNotes(cycle model.CycleType) []float64 {
	switch cycle {
	case model.CycleWork:
		return []float64{NoteC5, NoteE5}
	case model.CycleShortBreak:
		return []float64{NoteE5, NoteG5}
	case model.CycleLongBreak:
		return []float64{NoteC5, NoteE5, NoteG5}
	default:
		return nil
	}
}

// ChimeWAV renders notes as a mono 16-bit PCM WAV file. Each note is a sine
// that ramps to peak gain over the attack and decays linearly to silence.
func ChimeWAV(notes []float64) []byte {
	toneSamples := samplesFor(chimeToneLength)
	gapSamples := samplesFor(chimeToneGap)
	attackSamples := samplesFor(chimeAttack)

	total := 0
	if len(notes) > 0 {
		total = len(notes)*toneSamples + (len(notes)-1)*gapSamples
	}
	pcm := make([]int16, total)

	for index, frequency := range notes {
		offset := index * (toneSamples + gapSamples)
		for i := 0; i < toneSamples; i++ {
			var gain float64
			if i < attackSamples {
				gain = chimePeakGain * float64(i) / float64(attackSamples)
			} else {
				gain = chimePeakGain * float64(toneSamples-i) / float64(toneSamples-attackSamples)
			}
			phase := 2 * math.Pi * frequency * float64(i) / chimeSampleRate
			pcm[offset+i] = int16(gain * math.Sin(phase) * math.MaxInt16)
		}
	}

	return encodeWAV(pcm, chimeSampleRate)
}

func samplesFor(duration time.Duration) int {
	return int(duration.Seconds() * chimeSampleRate)
}

func encodeWAV(pcm []int16, sampleRate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	dataSize := len(pcm) * 2
	blockAlign := channels * bitsPerSample / 8

	var buffer bytes.Buffer
	buffer.Grow(44 + dataSize)
	buffer.WriteString("RIFF")
	_ = binary.Write(&buffer, binary.LittleEndian, uint32(36+dataSize))
	buffer.WriteString("WAVE")
	buffer.WriteString("fmt ")
	_ = binary.Write(&buffer, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buffer, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buffer, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buffer, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buffer, binary.LittleEndian, uint32(sampleRate*blockAlign))
	_ = binary.Write(&buffer, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buffer, binary.LittleEndian, uint16(bitsPerSample))
	buffer.WriteString("data")
	_ = binary.Write(&buffer, binary.LittleEndian, uint32(dataSize))
	_ = binary.Write(&buffer, binary.LittleEndian, pcm)
	return buffer.Bytes()
}
