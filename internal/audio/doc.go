// Package audio produces the 16 kHz mono signed 16-bit little-endian PCM stream
// the recognizer consumes.
//
// Direct mode (OpenWAV) streams the data chunk of a conforming wave file and
// rejects anything else with services.ErrFormat. Transcoding mode (Transcode)
// runs ffmpeg as a subprocess and reads raw PCM from its stdout; a missing or
// failing decoder surfaces as services.ErrDecode. Chunker slices either stream
// into the fixed-size buffers fed to the recognizer.
package audio
