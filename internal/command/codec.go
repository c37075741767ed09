package command

import (
	"encoding/json"
	"fmt"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
)

type addPayload struct {
	Element *model.Element `json:"element"`
}

type removePayload struct {
	Removed *model.Element `json:"removed,omitempty"`
}

type modifyPayload struct {
	Property string `json:"property"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

type movePayload struct {
	From model.Position `json:"from"`
	To   model.Position `json:"to"`
}

type layerPayload struct {
	OldIndex int `json:"old_index"`
	NewIndex int `json:"new_index"`
}

type solutionPayload struct {
	Solution model.Solution `json:"solution"`
	Previous model.Solution `json:"previous"`
}

// Encode converts a command into its journal record.
func Encode(cmd Command) (model.CommandRecord, error) {
	var (
		kind    model.CommandKind
		payload any
	)

	rec := recordFromMeta(cmd.Info())

	switch c := cmd.(type) {
	case *AddElement:
		kind, payload = model.KindAddElement, addPayload{Element: c.element}
	case *RemoveElement:
		kind, payload = model.KindRemoveElement, removePayload{Removed: c.removed}
	case *ModifyElement:
		kind, payload = model.KindModifyElement, modifyPayload{Property: c.Property, OldValue: c.OldValue, NewValue: c.NewValue}
	case *MoveElement:
		kind, payload = model.KindMoveElement, movePayload{From: c.From, To: c.To}
	case *ReorderLayer:
		kind, payload = model.KindReorderLayer, layerPayload{OldIndex: c.OldIndex, NewIndex: c.NewIndex}
	case *ApplySolution:
		kind, payload = model.KindApplySolution, solutionPayload{Solution: c.Solution, Previous: c.Previous}
	case *Checkpoint:
		kind = model.KindCheckpoint
	case *Group:
		kind = model.KindGroup
		for _, child := range c.Children {
			childRec, err := Encode(child)
			if err != nil {
				return model.CommandRecord{}, err
			}
			rec.Children = append(rec.Children, childRec)
		}
	default:
		return model.CommandRecord{}, fmt.Errorf("%w: %T", errors.ErrUnknownCommandKind, cmd)
	}

	rec.Kind = kind
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return model.CommandRecord{}, errors.Wrapf(err, "encode %s", kind)
		}
		rec.Payload = data
	}
	return rec, nil
}

// EncodeAll encodes a stack of commands, preserving order.
func EncodeAll(cmds []Command) ([]model.CommandRecord, error) {
	recs := make([]model.CommandRecord, 0, len(cmds))
	for _, cmd := range cmds {
		rec, err := Encode(cmd)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Decode rebuilds a command from its journal record, bound to store.
func Decode(store Store, rec model.CommandRecord) (Command, error) {
	meta := metaFromRecord(rec)

	switch rec.Kind {
	case model.KindAddElement:
		var p addPayload
		if err := unmarshalPayload(rec, &p); err != nil {
			return nil, err
		}
		if p.Element == nil {
			return nil, fmt.Errorf("decode %s %s: missing element", rec.Kind, rec.ID)
		}
		return &AddElement{Meta: meta, store: store, element: p.Element}, nil

	case model.KindRemoveElement:
		var p removePayload
		if err := unmarshalPayload(rec, &p); err != nil {
			return nil, err
		}
		return &RemoveElement{Meta: meta, store: store, removed: p.Removed}, nil

	case model.KindModifyElement:
		var p modifyPayload
		if err := unmarshalPayload(rec, &p); err != nil {
			return nil, err
		}
		return &ModifyElement{Meta: meta, store: store, Property: p.Property, OldValue: p.OldValue, NewValue: p.NewValue}, nil

	case model.KindMoveElement:
		var p movePayload
		if err := unmarshalPayload(rec, &p); err != nil {
			return nil, err
		}
		return &MoveElement{Meta: meta, store: store, From: p.From, To: p.To}, nil

	case model.KindReorderLayer:
		var p layerPayload
		if err := unmarshalPayload(rec, &p); err != nil {
			return nil, err
		}
		return &ReorderLayer{Meta: meta, store: store, OldIndex: p.OldIndex, NewIndex: p.NewIndex}, nil

	case model.KindApplySolution:
		var p solutionPayload
		if err := unmarshalPayload(rec, &p); err != nil {
			return nil, err
		}
		return &ApplySolution{Meta: meta, store: store, Solution: p.Solution, Previous: p.Previous}, nil

	case model.KindCheckpoint:
		return &Checkpoint{Meta: meta}, nil

	case model.KindGroup:
		g := &Group{Meta: meta}
		for _, childRec := range rec.Children {
			child, err := Decode(store, childRec)
			if err != nil {
				return nil, err
			}
			g.Children = append(g.Children, child)
		}
		return g, nil
	}

	return nil, fmt.Errorf("%w: %q", errors.ErrUnknownCommandKind, rec.Kind)
}

// DecodeAll decodes a stack of records, preserving order.
func DecodeAll(store Store, recs []model.CommandRecord) ([]Command, error) {
	cmds := make([]Command, 0, len(recs))
	for _, rec := range recs {
		cmd, err := Decode(store, rec)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func recordFromMeta(m *Meta) model.CommandRecord {
	return model.CommandRecord{
		ID:             m.ID,
		Description:    m.Description,
		Timestamp:      m.Timestamp,
		Executed:       m.Executed,
		ElementID:      m.ElementID,
		CheckpointID:   m.CheckpointID,
		CheckpointName: m.CheckpointName,
	}
}

func metaFromRecord(rec model.CommandRecord) Meta {
	return Meta{
		ID:             rec.ID,
		Description:    rec.Description,
		Timestamp:      rec.Timestamp,
		Executed:       rec.Executed,
		ElementID:      rec.ElementID,
		CheckpointID:   rec.CheckpointID,
		CheckpointName: rec.CheckpointName,
	}
}

func unmarshalPayload(rec model.CommandRecord, v any) error {
	if len(rec.Payload) == 0 {
		return fmt.Errorf("decode %s %s: empty payload", rec.Kind, rec.ID)
	}
	if err := json.Unmarshal(rec.Payload, v); err != nil {
		return errors.Wrapf(err, "decode %s %s", rec.Kind, rec.ID)
	}
	return nil
}

// KindOf returns the journal kind of cmd, or "" for commands the codec does
// not know.
func KindOf(cmd Command) model.CommandKind {
	switch cmd.(type) {
	case *AddElement:
		return model.KindAddElement
	case *RemoveElement:
		return model.KindRemoveElement
	case *ModifyElement:
		return model.KindModifyElement
	case *MoveElement:
		return model.KindMoveElement
	case *ReorderLayer:
		return model.KindReorderLayer
	case *ApplySolution:
		return model.KindApplySolution
	case *Group:
		return model.KindGroup
	case *Checkpoint:
		return model.KindCheckpoint
	}
	return ""
}
