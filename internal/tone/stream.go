package tone

import (
	"context"
	"io"
	"time"
)

const (
	streamChunk = 50 * time.Millisecond
	streamLead  = 200 * time.Millisecond
)

// StreamWAV writes an endless WAV rendition of src to w until ctx is done.
// Output is paced to real time, staying streamLead ahead of the listener so
// volume changes are heard promptly. flush, if set, runs after every write.
// An Engine source counts as listened to while the stream runs.
func StreamWAV(ctx context.Context, w io.Writer, flush func(), src io.Reader, sampleRate int) error {
	if e, ok := src.(*Engine); ok {
		defer e.Attach()()
	}
	if err := WriteWAVHeader(w, sampleRate, Channels, StreamDataSize); err != nil {
		return err
	}

	chunkFrames := frameCount(streamChunk, sampleRate)
	buf := make([]byte, chunkFrames*BytesPerFrame)

	write := func() error {
		if _, err := io.ReadFull(src, buf); err != nil {
			return err
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
		if flush != nil {
			flush()
		}
		return nil
	}

	for i := 0; i < int(streamLead/streamChunk); i++ {
		if err := write(); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(streamChunk)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := write(); err != nil {
				return err
			}
		}
	}
}
