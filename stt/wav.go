package stt

import "encoding/binary"

// float32ToWAV wraps float32 PCM samples in a 16-bit mono RIFF/WAV
// container, the format the transcription endpoints accept.
func float32ToWAV(samples []float32, sampleRate int) []byte {
	dataSize := len(samples) * 2
	buf := make([]byte, 44+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)                 // chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)                  // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1)                  // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate)) // sample rate
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*2))
	binary.LittleEndian.PutUint16(buf[32:34], 2)  // block align
	binary.LittleEndian.PutUint16(buf[34:36], 16) // bits per sample

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	for i, s := range samples {
		// Clamp to [-1, 1] before scaling to int16.
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		binary.LittleEndian.PutUint16(buf[44+i*2:], uint16(v))
	}
	return buf
}
