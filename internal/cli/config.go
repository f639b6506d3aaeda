package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/fwilhelm/nimbus/pkg/cloud"
	"github.com/fwilhelm/nimbus/pkg/errors"
)

// layoutFile is the TOML document accepted by the render and preview
// commands:
//
//	[cloud]
//	width = 800
//	height = 600
//	angle_count = 3
//	angle_from = -90.0
//	angle_to = 90.0
//
//	[[tags]]
//	text = "nimbus"
//	weight = 10.0
//
//	[[tags]]
//	text = "cloud"
//	weight = 4.0
//	color = "#3366cc"
type layoutFile struct {
	Cloud cloud.Config `toml:"cloud"`
	Tags  []cloud.Tag  `toml:"tags"`
}

// loadLayoutFile reads and decodes a TOML layout description.
func loadLayoutFile(path string) (cloud.Config, []cloud.Tag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cloud.Config{}, nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "reading layout file %s", path)
	}
	var f layoutFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return cloud.Config{}, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding layout file %s", path)
	}
	if len(f.Tags) == 0 {
		return cloud.Config{}, nil, errors.New(errors.ErrCodeInvalidTag, "layout file %s contains no tags", path)
	}
	return f.Cloud, f.Tags, nil
}
