package assets

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/soocke/pose-smoother-go/source"
)

// SampleClipJSONL contains a three second, 33-landmark clip recorded at
// 30 fps, used when no clip path is configured.
//
//go:embed sample_clip.jsonl
var SampleClipJSONL []byte

// SampleClip decodes the embedded clip.
func SampleClip() (*source.Clip, error) {
	if len(SampleClipJSONL) == 0 {
		return nil, fmt.Errorf("embedded sample_clip.jsonl is empty")
	}
	clip, err := source.LoadClip(bytes.NewReader(SampleClipJSONL))
	if err != nil {
		return nil, err
	}
	clip.Name = "sample"
	return clip, nil
}
