package grouping

import "fmt"

type SelectionState string

const (
	SelectionUnselected SelectionState = "unselected"
	SelectionKeepChosen SelectionState = "keep_chosen"
	SelectionReady      SelectionState = "ready"
	SelectionMerging    SelectionState = "merging"
	SelectionResolved   SelectionState = "resolved"
	SelectionFailed     SelectionState = "failed"
)

// Selection tracks the operator's keep/delete choice for one group.
// A failed merge behaves like ready so the operator can retry.
type Selection struct {
	size    int
	state   SelectionState
	keep    int
	del     int
	lastErr error
}

func NewSelection(size int) *Selection {
	return &Selection{size: size, state: SelectionUnselected, keep: -1, del: -1}
}

func (s *Selection) State() SelectionState { return s.state }
func (s *Selection) Keep() int             { return s.keep }
func (s *Selection) Delete() int           { return s.del }
func (s *Selection) LastErr() error        { return s.lastErr }

func (s *Selection) inRange(i int) error {
	if i < 0 || i >= s.size {
		return fmt.Errorf("member index %d out of range [0,%d)", i, s.size)
	}
	return nil
}

func (s *Selection) editable() bool {
	switch s.state {
	case SelectionUnselected, SelectionKeepChosen, SelectionReady, SelectionFailed:
		return true
	}
	return false
}

// ChooseKeep picks the surviving member. Picking a different keep once one
// is chosen clears the selection.
func (s *Selection) ChooseKeep(i int) error {
	if !s.editable() {
		return fmt.Errorf("cannot choose keep while %s", s.state)
	}
	if err := s.inRange(i); err != nil {
		return err
	}
	if s.keep >= 0 && s.keep != i {
		s.reset()
		return nil
	}
	s.keep = i
	if s.del >= 0 {
		s.state = SelectionReady
	} else {
		s.state = SelectionKeepChosen
	}
	return nil
}

func (s *Selection) ChooseDelete(i int) error {
	if !s.editable() || s.keep < 0 {
		return fmt.Errorf("cannot choose delete while %s", s.state)
	}
	if err := s.inRange(i); err != nil {
		return err
	}
	if i == s.keep {
		return fmt.Errorf("keep and delete must differ")
	}
	s.del = i
	s.state = SelectionReady
	return nil
}

// Begin moves a ready selection to merging and returns the chosen indexes.
func (s *Selection) Begin() (keep, del int, err error) {
	if s.state != SelectionReady && s.state != SelectionFailed {
		return -1, -1, fmt.Errorf("selection not ready (%s)", s.state)
	}
	s.state = SelectionMerging
	s.lastErr = nil
	return s.keep, s.del, nil
}

// Complete records the merge outcome.
func (s *Selection) Complete(err error) {
	if s.state != SelectionMerging {
		return
	}
	if err != nil {
		s.state = SelectionFailed
		s.lastErr = err
		return
	}
	s.state = SelectionResolved
}

func (s *Selection) reset() {
	s.state = SelectionUnselected
	s.keep, s.del = -1, -1
	s.lastErr = nil
}
