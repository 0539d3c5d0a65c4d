package replay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

// actionPayload is the stored form of every action kind; unused fields stay zero
type actionPayload struct {
	Player core.Owner     `json:"player"`
	Tile   core.TileIndex `json:"tile,omitempty"`
	Target core.Owner     `json:"target,omitempty"`
	Troops float64        `json:"troops,omitempty"`
}

// EncodeAction returns the kind name and JSON payload of an action
func EncodeAction(action core.Action) (string, []byte, error) {
	var p actionPayload
	switch a := action.(type) {
	case *core.SpawnAction:
		p = actionPayload{Player: a.PlayerID, Tile: a.Tile}
	case *core.AttackAction:
		p = actionPayload{Player: a.PlayerID, Target: a.Target, Troops: a.Troops}
	case *core.BoatAction:
		p = actionPayload{Player: a.PlayerID, Tile: a.Target, Troops: a.Troops}
	default:
		return "", nil, fmt.Errorf("unsupported action %T", action)
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return "", nil, err
	}
	return action.GetType().String(), payload, nil
}

// DecodeAction rebuilds an action stored by EncodeAction
func DecodeAction(kind string, payload []byte) (core.Action, error) {
	var p actionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	switch kind {
	case core.ActionSpawn.String():
		return &core.SpawnAction{PlayerID: p.Player, Tile: p.Tile}, nil
	case core.ActionAttack.String():
		return &core.AttackAction{PlayerID: p.Player, Target: p.Target, Troops: p.Troops}, nil
	case core.ActionBoat.String():
		return &core.BoatAction{PlayerID: p.Player, Target: p.Tile, Troops: p.Troops}, nil
	default:
		return nil, fmt.Errorf("unknown action kind %q", kind)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := lz4.NewWriter(&buf)
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressLZ4(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, lz4.NewReader(bytes.NewReader(data))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
