package transcode

// Restrictable bypasses reflection for Restrict.
// When a type implements it, Restrictor calls the method instead of walking
// tagged fields. The receiver is a clone, so mutations are safe.
type Restrictable interface {
	Restrict(conv *Converter) error
}
