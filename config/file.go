/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// LoadFile reads path and decodes it over base, returning the merged
// Config. The format is sniffed from the file extension: .json, .yaml/
// .yml, and .toml are supported, matching the three struct tags already
// carried by every Config field. Fields absent from the file keep
// base's value, so callers typically pass Default() as base.
func LoadFile(path string, base Config) (Config, error) {
	/* #nosec */
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, ErrorConfigFileRead.Error(err)
	}

	generic := make(map[string]interface{})

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(raw, &generic)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &generic)
	case ".toml":
		err = toml.Unmarshal(raw, &generic)
	default:
		return base, ErrorConfigFileFormat.Error(nil)
	}

	if err != nil {
		return base, ErrorConfigFileParse.Error(err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		Result:           &base,
	})
	if err != nil {
		return base, ErrorConfigFileDecode.Error(err)
	}

	if err = dec.Decode(generic); err != nil {
		return base, ErrorConfigFileDecode.Error(err)
	}

	return base, nil
}
