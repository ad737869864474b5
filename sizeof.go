package taskslab

// These constants are verified via unit tests (see sizeof_test.go and
// the alignment assertions in page_test.go).
const (
	// pageSize is the mandatory byte size of a Page: four 8-byte WordCell
	// fields plus 32 bytes of padding. A Page's alignment must equal its
	// size, so this doubles as the alignment requirement.
	pageSize = 64

	// pageAlign is the mandatory alignment of a Page. Equal to pageSize so
	// that any byte pointer into the page can recover the base via
	// p - (p mod pageAlign).
	pageAlign = 64

	// bitsPerPage is the number of tasks addressable per Page (one bit per
	// status word per task).
	bitsPerPage = 64

	// sizeOfWordCell is the size of a WordCell in bytes.
	sizeOfWordCell = 8
)
