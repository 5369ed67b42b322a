// Package transcode turns a planned segment of the source video into a
// standalone clip in the target aspect ratio.
//
// The ffmpeg backend scales the picture to fit the output frame and pads the
// remainder (letterbox or pillarbox); it never crops. A transcode failure is
// fatal for its segment, so errors carry the services.ErrExternalTool marker.
package transcode
