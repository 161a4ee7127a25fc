// Package memory configures the Go soft memory limit from container limits.
//
// Image decoding is the largest allocation in the process: a 24MP photo
// is ~96MB as RGBA before any resizing. Setting GOMEMLIMIT below the
// container limit makes the collector work harder before the kernel OOM
// killer does.
//
// MEMORY_LIMIT is typically injected with the Kubernetes Downward API:
//
//	env:
//	- name: MEMORY_LIMIT
//	  valueFrom:
//	    resourceFieldRef:
//	      resource: limits.memory
package memory
