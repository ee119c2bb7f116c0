package transcode

// Cloner allows types to provide deep copy logic.
// Implementing this interface is required for use with Restrictor.
//
// The Clone method must return a deep copy where modifications to the clone
// do not affect the original value. Restrict rewrites string slices and maps
// in place on the clone, so those must be copied:
//
//	func (a Address) Clone() Address {
//	    lines := make([]string, len(a.Lines))
//	    copy(lines, a.Lines)
//	    return Address{City: a.City, Lines: lines}
//	}
type Cloner[T any] interface {
	Clone() T
}
