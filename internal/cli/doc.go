// Package cli implements the imagehost command line.
//
//	imagehost process photo.jpg scan.png --out ./upload --unique-names
//	imagehost probe
//	imagehost version --json
//
// process reads the selected files, runs them through the transcode
// pipeline and writes the results to the output directory, which is
// locked for the duration of the run. Options come from the preferences
// file and can be overridden per run; --save-prefs stores the effective
// options back.
package cli
