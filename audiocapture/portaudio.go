package audiocapture

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// framesPerBlock is the callback block size in frames. At 16 kHz a 1024
// frame block is 64 ms of audio.
const framesPerBlock = 1024

// paStream pairs a portaudio stream with the library-level teardown so each
// arm/disarm cycle fully releases the host API.
type paStream struct {
	stream *portaudio.Stream
}

// openPortAudio is the default OpenFunc. It initializes PortAudio, opens the
// default input device and starts the stream; on any failure everything
// acquired so far is released before returning.
func openPortAudio(sampleRate, channels int, onBlock func([]float32)) (Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(sampleRate), framesPerBlock,
		func(in []float32) { onBlock(in) })
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("open default stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("start stream: %w", err)
	}

	return &paStream{stream: stream}, nil
}

func (s *paStream) Stop() error {
	return s.stream.Stop()
}

func (s *paStream) Close() error {
	err := s.stream.Close()
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}
