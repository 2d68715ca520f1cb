package dyntrans

// Arch is the set of hooks an architecture-specific CPU must provide for
// the engine to drive it: program-counter access, guest instruction
// fetch (through virtual-to-physical translation and the bus), and the
// decode-to-cell step.
type Arch interface {
	PC() uint64
	SetPC(uint64)

	// ReadInstructionWord fetches the raw instruction word at vaddr,
	// translating virtual to physical and reading via the bus. ok is
	// false on a bus or translation failure.
	ReadInstructionWord(vaddr uint64) (uint32, bool)

	// Translate decodes iw and writes the resulting F/Args into cell.
	// Returns false if iw could not be decoded (cell.F is then set to a
	// generic nop/unimplemented-trap by the caller).
	Translate(iw uint32, cell *Cell) bool

	// InstrAlignShift is log2 of the instruction alignment in bytes
	// (icShift in spec §4.6; 2 for a 4-byte-aligned 32-bit ISA).
	InstrAlignShift() uint

	// PageEntriesShift is log2 of the number of real cells per page
	// (pageShift in spec §4.6).
	PageEntriesShift() uint
}

// Engine holds the translation pages and the live execution cursor
// (icPage/nextIC) for one CPU — the Go analogue of CPUDyntransComponent's
// own m_ICpage/m_nextIC fields, factored out as its own type instead of
// base-class state, per spec §9's "tagged variant ... plus trait objects"
// guidance.
type Engine struct {
	Arch Arch

	pages    map[uint64]*Page
	icPage   *Page
	nextIC   int
	pageBase uint64

	// LastFault is set by the generic `abort` cells and by architecture
	// kernels that fault (m88k's ldcr and st); the engine only records it,
	// for the CPU component to expose (m88k's CPU.LastFault), and never
	// panics on the guest execution path.
	LastFault error
}

// NewEngine constructs an Engine bound to arch.
func NewEngine(arch Arch) *Engine {
	return &Engine{Arch: arch, pages: make(map[uint64]*Page)}
}

// FlushCachedState drops every translated page, forcing full retranslation
// on next use — called before a fresh run (spec §4.2's flushCachedState).
func (e *Engine) FlushCachedState() {
	e.pages = make(map[uint64]*Page)
	e.icPage = nil
	e.nextIC = 0
}

func (e *Engine) cellsPerPage() int { return 1 << e.Arch.PageEntriesShift() }

func (e *Engine) pageKeyShift() uint { return e.Arch.InstrAlignShift() + e.Arch.PageEntriesShift() }

// resyncFromPC relocates icPage/nextIC to reflect the architecture's
// current pc, allocating a fresh page on first use of a guest page.
func (e *Engine) resyncFromPC() {
	pc := e.Arch.PC()
	shift := e.pageKeyShift()
	pageKey := pc >> shift
	page, ok := e.pages[pageKey]
	if !ok {
		page = e.allocatePage(pageKey)
		e.pages[pageKey] = page
	}
	e.icPage = page
	e.pageBase = pageKey << shift
	e.nextIC = int((pc - e.pageBase) >> e.Arch.InstrAlignShift())
}

func (e *Engine) allocatePage(pageKey uint64) *Page {
	icShift := e.Arch.InstrAlignShift()
	cellsPerPage := e.cellsPerPage()
	pageBase := pageKey << e.pageKeyShift()
	nextPageBase := pageBase + uint64(cellsPerPage)<<icShift

	cells := make([]Cell, cellsPerPage+nSpecialEntries)
	for i := 0; i < cellsPerPage; i++ {
		addr := pageBase + uint64(i)<<icShift
		cells[i].F = makeToBeTranslated(addr)
	}
	cells[cellsPerPage].F = makeEndOfPage(nextPageBase)
	cells[cellsPerPage+1].F = makeEndOfPage(nextPageBase)
	return &Page{Cells: cells}
}

// Execute runs up to nrOfCycles cells, resyncing from the current pc first,
// and returns the number actually executed. Called by the owning CPU
// component's Execute/Run (spec §4.9's executeCycles budget).
func (e *Engine) Execute(nrOfCycles int) int {
	e.resyncFromPC()
	executed := 0
	for executed < nrOfCycles {
		cur := &e.icPage.Cells[e.nextIC]
		e.nextIC++
		executed++
		cur.F(e, cur)
	}
	// Straight-line cells (the common case once a page is translated)
	// never touch pc themselves — only Branch and the end-of-page
	// sentinels do. Resync it from the cursor here so Arch.PC() always
	// reflects the next cell to execute (DYNTRANS_SYNCH_PC in the
	// original source), not the address of whatever cell last ran.
	e.Arch.SetPC(e.pageBase + uint64(e.nextIC)<<e.Arch.InstrAlignShift())
	return executed
}

// Branch redirects execution to target, resyncing the page cursor
// immediately so the Execute loop's next increment lands in the right
// place. Architecture-specific branch/jump/call kernels that are not
// guaranteed to stay within the currently executing page call this instead
// of writing pc directly (mirrors DyntransPCtoPointers, called explicitly
// by the source's non-samepage control-transfer instructions).
func (e *Engine) Branch(target uint64) {
	e.Arch.SetPC(target)
	e.resyncFromPC()
}

// makeToBeTranslated returns the per-cell to-be-translated closure: it
// fetches the instruction word at the fixed guest address this cell
// corresponds to (known at page-allocation time, so there is no need to
// recover it from cell/page pointer arithmetic the way the source does),
// decodes it, and tail-invokes the freshly written cell.
func makeToBeTranslated(addr uint64) InstrFunc {
	return func(e *Engine, cell *Cell) {
		iw, ok := e.Arch.ReadInstructionWord(addr)
		if !ok {
			cell.F = instrAbort
			cell.F(e, cell)
			return
		}
		// Synchronize pc to this cell's own address before translating,
		// so a PC-relative decode (a branch computing its target from
		// the instruction's own address) sees the right value — the
		// source's to-be-translated handler does the same resync before
		// calling Translate().
		e.Arch.SetPC(addr)
		if !e.Arch.Translate(iw, cell) {
			cell.F = instrNop
		}
		cell.F(e, cell)
	}
}

// makeEndOfPage returns the sentinel cell function: set pc to the next
// page's base and resync (spec §4.6, "End-of-page sentinels unconditionally
// perform option (c)"). Both trailing sentinel slots use this identically;
// the source keeps two distinct entries for a delay-slot-spanning overrun,
// but the spec text gives them the same behavior.
func makeEndOfPage(nextPageBase uint64) InstrFunc {
	return func(e *Engine, cell *Cell) {
		e.Arch.SetPC(nextPageBase)
		e.resyncFromPC()
	}
}
