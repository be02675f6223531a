package main

// maxHistory bounds the in-memory undo stack; the oldest action is evicted
// when a commit would exceed it.
const maxHistory = 256

// Mutation records one cell's prior and resulting value. Applying New and
// then Old must return the canvas to its exact prior state.
type Mutation struct {
	X   int
	Y   int
	Old Cell
	New Cell
}

type ActionKind int

const (
	ActionCellChange ActionKind = iota
	ActionCanvasSnapshot
)

// Action is one invertible unit of history: either an ordered mutation list
// or a whole-canvas snapshot (resize, import).
type Action struct {
	Kind      ActionKind
	Mutations []Mutation

	OldCells [][]Cell
	OldW     int
	OldH     int
	NewCells [][]Cell
	NewW     int
	NewH     int
}

func cellChange(mutations []Mutation) Action {
	return Action{Kind: ActionCellChange, Mutations: mutations}
}

func canvasSnapshot(oldCells [][]Cell, oldW, oldH int, newCells [][]Cell, newW, newH int) Action {
	return Action{
		Kind:     ActionCanvasSnapshot,
		OldCells: oldCells,
		OldW:     oldW,
		OldH:     oldH,
		NewCells: newCells,
		NewW:     newW,
		NewH:     newH,
	}
}

// History is the interactive session's undo engine: two stacks of actions
// plus an optional pending list batching a drag stroke into one action.
type History struct {
	undoStack    []Action
	redoStack    []Action
	pending      []Mutation
	strokeActive bool
}

func NewHistory() *History {
	return &History{}
}

// BeginStroke starts accumulating mutations for a drag. An already-open
// stroke is closed first.
func (h *History) BeginStroke() {
	if h.strokeActive {
		h.EndStroke()
	}
	h.pending = nil
	h.strokeActive = true
}

// PushMutation adds to the active stroke, or commits immediately as a
// single-mutation action when no stroke is open.
func (h *History) PushMutation(m Mutation) {
	if h.strokeActive {
		h.pending = append(h.pending, m)
		return
	}
	h.Commit(cellChange([]Mutation{m}))
}

// EndStroke commits the pending mutations as one action.
func (h *History) EndStroke() {
	if h.strokeActive && len(h.pending) > 0 {
		h.Commit(cellChange(h.pending))
	}
	h.pending = nil
	h.strokeActive = false
}

// Commit pushes an action onto the undo stack and clears the redo stack.
// Empty cell changes are rejected.
func (h *History) Commit(action Action) {
	if action.Kind == ActionCellChange && len(action.Mutations) == 0 {
		return
	}
	h.redoStack = h.redoStack[:0]
	h.undoStack = append(h.undoStack, action)
	if len(h.undoStack) > maxHistory {
		h.undoStack = h.undoStack[1:]
	}
}

// Undo reverts the most recent action. Mutations are applied in reverse
// order so overlapping writes within one action invert correctly.
func (h *History) Undo(c *Canvas) bool {
	if len(h.undoStack) == 0 {
		return false
	}
	last := len(h.undoStack) - 1
	action := h.undoStack[last]
	h.undoStack = h.undoStack[:last]

	switch action.Kind {
	case ActionCellChange:
		for i := len(action.Mutations) - 1; i >= 0; i-- {
			m := action.Mutations[i]
			c.Set(m.X, m.Y, m.Old)
		}
	case ActionCanvasSnapshot:
		c.Replace(action.OldCells, action.OldW, action.OldH)
	}

	h.redoStack = append(h.redoStack, action)
	return true
}

// Redo re-applies the most recently undone action in forward order.
func (h *History) Redo(c *Canvas) bool {
	if len(h.redoStack) == 0 {
		return false
	}
	last := len(h.redoStack) - 1
	action := h.redoStack[last]
	h.redoStack = h.redoStack[:last]

	switch action.Kind {
	case ActionCellChange:
		for _, m := range action.Mutations {
			c.Set(m.X, m.Y, m.New)
		}
	case ActionCanvasSnapshot:
		c.Replace(action.NewCells, action.NewW, action.NewH)
	}

	h.undoStack = append(h.undoStack, action)
	return true
}

func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

func (h *History) StrokeActive() bool {
	return h.strokeActive
}
