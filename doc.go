// Command imagehost prepares images for upload to an image host.
//
// Selected images are compressed in their own format, then converted to
// WebP when the environment can handle it. Work runs in small concurrent
// groups with progress reported after each group. A stage that fails for
// an image hands on the image it received, so every input produces an
// output.
//
// # Usage
//
//	imagehost process [files...] [--compress] [--webp] [--out DIR]
//	imagehost probe
//	imagehost version
//
// See package imagehost/internal/startup for the environment variables
// and preferences file.
package main
