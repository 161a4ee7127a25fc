/*
Package workers sizes worker pools from the CPU budget the process actually
has.

runtime.NumCPU reports host CPUs even inside a CPU-limited container, while
runtime.GOMAXPROCS(0) follows the cgroup limit (Go 1.19+). Count and ForCPU
use the latter.

The image pipeline itself runs a fixed number of items per group; this
package sizes the thread pool libvips uses underneath it:

	vipsThreads := workers.ForCPU(4)

Operators can pin the value with IMAGEHOST_WORKERS.
*/
package workers
