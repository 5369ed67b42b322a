// Package whisperx runs local WhisperX transcription through uvx.
//
// A transcription extracts the clip's first audio stream to a mono 16 kHz WAV
// with ffmpeg, runs WhisperX with JSON output, and parses the segments and
// detected language from the result. Model, CUDA, and VAD options come from
// Config; tests substitute the command runner.
package whisperx
