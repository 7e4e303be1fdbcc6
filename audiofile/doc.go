// Package audiofile reads audio files as a sequence of fixed-size blocks
// and writes signals back to PCM containers.
//
// Decoding is chosen by file extension: WAV and AIFF through go-audio, MP3
// through go-mp3 and Ogg Vorbis through oggvorbis. Only WAV and AIFF can be
// written. Samples are exchanged as float32 in [-1, 1]; writers clip.
package audiofile
