package script

const (
	// ============================================================================
	// Directives
	// ============================================================================

	// DirectiveArena declares the arena size: "arena N"
	DirectiveArena = "arena"

	// DirectiveAlloc allocates and binds a name: "alloc NAME SIZE [POLICY]"
	DirectiveAlloc = "alloc"

	// DirectiveFree frees a binding ("free NAME") or a raw region ("free ADDR SIZE")
	DirectiveFree = "free"

	// ============================================================================
	// Lexical Tokens
	// ============================================================================

	// CommentPrefix marks a comment; the rest of the line is ignored
	CommentPrefix = "#"

	// CR is stripped from line ends so CRLF files parse
	CR = "\r"

	// LF terminates emitted lines
	LF = "\n"

	// ============================================================================
	// Scanner Limits
	// ============================================================================

	// ScannerInitialBufferSize is the initial line buffer size
	ScannerInitialBufferSize = 4 * 1024

	// ScannerMaxLineSize is the longest accepted line
	ScannerMaxLineSize = 64 * 1024

	// InitialOpCapacity is the pre-allocated op slice capacity
	InitialOpCapacity = 32
)
