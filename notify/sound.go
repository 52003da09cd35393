package notify

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/halcyon-app/tend/internal/pathutil"
)

// decodeSoundStream opens and decodes the specified sound. The decoder
// takes ownership of the file, so it stays open until the caller closes
// the returned stream after playback.
func decodeSoundStream(
	sound string,
) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		f      fs.File
		err    error
		stream beep.StreamSeekCloser
		format beep.Format
	)

	ext := filepath.Ext(sound)
	// without extension, treat as a bundled OGG file in the data dir
	if ext == "" {
		sound += ".ogg"

		path, serr := xdg.SearchDataFile(
			filepath.Join(pathutil.Dir(), "static", sound),
		)
		if serr != nil {
			return nil, format, serr
		}

		f, err = os.Open(path)
		if err != nil {
			return nil, format, err
		}
	} else {
		f, err = os.Open(sound)
		if err != nil {
			return nil, format, err
		}
	}

	ext = filepath.Ext(sound)

	switch ext {
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		_ = f.Close()
		return nil, format, errInvalidSoundFormat
	}

	if err != nil {
		_ = f.Close()
		return nil, format, err
	}

	return stream, format, nil
}

// prepSoundStream returns a playback-ready audio stream for the
// specified sound.
func prepSoundStream(sound string) (beep.StreamSeekCloser, error) {
	stream, format, err := decodeSoundStream(sound)
	if err != nil {
		return nil, err
	}

	bufferSize := 10

	err = speaker.Init(
		format.SampleRate,
		format.SampleRate.N(time.Duration(int(time.Second)/bufferSize)),
	)
	if err != nil {
		_ = stream.Close()
		return nil, err
	}

	err = stream.Seek(0)
	if err != nil {
		_ = stream.Close()
		return nil, err
	}

	return stream, nil
}

// playSound plays the notification sound to completion.
func playSound(sound string) {
	stream, err := prepSoundStream(sound)
	if err != nil {
		slog.Error("unable to play sound", slog.Any("error", err))
		return
	}

	done := make(chan bool)

	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		done <- true
	})))

	<-done

	stream.Close()

	speaker.Clear()
	speaker.Close()
}
