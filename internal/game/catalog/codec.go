package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Effects is an ordered effect list. On the wire each element is an object
// tagged with its "kind".
type Effects []Effect

var decoders = map[Kind]func(decode func(any) error) (Effect, error){
	KindDealDamage:      decodeAs[DealDamage],
	KindHeal:            decodeAs[Heal],
	KindDraw:            decodeAs[Draw],
	KindSummon:          decodeAs[Summon],
	KindBuff:            decodeAs[Buff],
	KindGrantKeyword:    decodeAs[GrantKeyword],
	KindDestroy:         decodeAs[Destroy],
	KindGainArmor:       decodeAs[GainArmor],
	KindGainMana:        decodeAs[GainMana],
	KindSilence:         decodeAs[Silence],
	KindFreeze:          decodeAs[Freeze],
	KindTransform:       decodeAs[Transform],
	KindDiscover:        decodeAs[Discover],
	KindAdapt:           decodeAs[Adapt],
	KindAddToHand:       decodeAs[AddToHand],
	KindShuffleIntoDeck: decodeAs[ShuffleIntoDeck],
	KindEquipWeapon:     decodeAs[EquipWeapon],
	KindDiscard:         decodeAs[Discard],
	KindTakeControl:     decodeAs[TakeControl],
	KindReturnToHand:    decodeAs[ReturnToHand],
}

func decodeAs[T Effect](decode func(any) error) (Effect, error) {
	var v T
	if err := decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeEffect(kind Kind, decode func(any) error) (Effect, error) {
	d, ok := decoders[kind]
	if !ok {
		return nil, &UnknownKindError{Kind: kind}
	}
	return d(decode)
}

// MarshalJSON writes each effect as an object with a leading "kind" field.
func (es Effects) MarshalJSON() ([]byte, error) {
	if es == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, eff := range es {
		if eff == nil {
			return nil, fmt.Errorf("effect %d is nil", i)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		body, err := json.Marshal(eff)
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		kind, err := json.Marshal(eff.Kind())
		if err != nil {
			return nil, err
		}
		buf.WriteString(`{"kind":`)
		buf.Write(kind)
		if len(body) > 2 {
			buf.WriteByte(',')
			buf.Write(body[1:])
		} else {
			buf.WriteByte('}')
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a tagged effect list, rejecting unknown kinds.
func (es *Effects) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		*es = nil
		return nil
	}
	out := make(Effects, 0, len(raw))
	for i, item := range raw {
		var head struct {
			Kind Kind `json:"kind"`
		}
		if err := json.Unmarshal(item, &head); err != nil {
			return fmt.Errorf("effect %d: %w", i, err)
		}
		eff, err := decodeEffect(head.Kind, func(v any) error { return json.Unmarshal(item, v) })
		if err != nil {
			return fmt.Errorf("effect %d: %w", i, err)
		}
		out = append(out, eff)
	}
	*es = out
	return nil
}

// MarshalYAML emits a sequence of mappings, each starting with its kind.
func (es Effects) MarshalYAML() (any, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for i, eff := range es {
		if eff == nil {
			return nil, fmt.Errorf("effect %d is nil", i)
		}
		var n yaml.Node
		if err := n.Encode(eff); err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		n.Style = 0
		head := []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "kind"},
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(eff.Kind())},
		}
		n.Content = append(head, n.Content...)
		seq.Content = append(seq.Content, &n)
	}
	return seq, nil
}

// UnmarshalYAML decodes a tagged effect list, rejecting unknown kinds.
func (es *Effects) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*es = nil
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: effects must be a list", node.Line)
	}
	if len(node.Content) == 0 {
		*es = nil
		return nil
	}
	out := make(Effects, 0, len(node.Content))
	for i, item := range node.Content {
		var head struct {
			Kind Kind `yaml:"kind"`
		}
		if err := item.Decode(&head); err != nil {
			return fmt.Errorf("line %d: effect %d: %w", item.Line, i, err)
		}
		eff, err := decodeEffect(head.Kind, item.Decode)
		if err != nil {
			return fmt.Errorf("line %d: effect %d: %w", item.Line, i, err)
		}
		out = append(out, eff)
	}
	*es = out
	return nil
}
