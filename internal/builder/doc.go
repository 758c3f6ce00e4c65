// Package builder constructs double-array units from a sorted keyset.
//
// Construction partitions the sorted keys recursively by the byte at the
// current depth. For every node an offset is chosen so that all child slots
// (offset XOR label) are free. Free slots are tracked in a circular doubly
// linked list embedded in a sliding window of "extras" that covers the last
// 16 blocks of 256 units; blocks leaving the window are fixed, which claims
// their remaining slots with labels that never match a real transition.
//
// Offsets are unique per node, so a child is identified by its label alone:
// a unit whose label equals the transition byte belongs to the path being
// walked.
package builder
