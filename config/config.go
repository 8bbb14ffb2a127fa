// Copyright 2026 groupwise Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for a recommendation run. There is no
// package level state: every component receives its section explicitly.
type Config struct {
	Data  DataConfig  `mapstructure:"data"`
	CF    CFConfig    `mapstructure:"cf"`
	Group GroupConfig `mapstructure:"group"`
}

// DataConfig locates the MovieLens files.
type DataConfig struct {
	// RatingsPath is the path to ratings.csv.
	RatingsPath string `mapstructure:"ratings_path" validate:"required"`
	// MoviesPath is the path to movies.csv. Optional: only the why-not
	// explanation layer joins against movie metadata.
	MoviesPath string `mapstructure:"movies_path"`
}

// CFConfig holds the collaborative filtering parameters.
type CFConfig struct {
	// Metric selects the similarity measure between users.
	Metric string `mapstructure:"metric" validate:"oneof=pearson cosine adjusted_cosine"`
	// TopK is the neighborhood size used for rating prediction.
	TopK int `mapstructure:"top_k" validate:"gt=0"`
	// MinOverlap is the minimum number of co-rated items required before
	// a similarity score is considered meaningful.
	MinOverlap int `mapstructure:"min_overlap" validate:"gte=0"`
}

// GroupConfig holds the group aggregation parameters.
type GroupConfig struct {
	// Members are the user ids of the group.
	Members []int `mapstructure:"members" validate:"omitempty,min=2"`
	// TopN is the length of the final recommendation lists shown to the group.
	TopN int `mapstructure:"top_n" validate:"gt=0"`
	// Iterations is the number of rounds of sequential hybrid aggregation.
	Iterations int `mapstructure:"iterations" validate:"gt=0"`
	// KemenyMaxSize caps the Kemeny-Young candidate set. The permutation
	// search is factorial in this value.
	KemenyMaxSize int `mapstructure:"kemeny_max_size" validate:"gt=0,lte=10"`
}

func (config *Config) LoadDefaultIfNil() *Config {
	if config == nil {
		return &Config{
			CF:    *(*CFConfig)(nil).LoadDefaultIfNil(),
			Group: *(*GroupConfig)(nil).LoadDefaultIfNil(),
		}
	}
	return config
}

func (c *CFConfig) LoadDefaultIfNil() *CFConfig {
	if c == nil {
		return &CFConfig{
			Metric:     "pearson",
			TopK:       10,
			MinOverlap: 3,
		}
	}
	return c
}

func (c *GroupConfig) LoadDefaultIfNil() *GroupConfig {
	if c == nil {
		return &GroupConfig{
			TopN:          10,
			Iterations:    3,
			KemenyMaxSize: 10,
		}
	}
	return c
}

// Validate checks the configuration against the struct constraints.
func (config *Config) Validate() error {
	return errors.Trace(validator.New().Struct(config))
}

func setDefault(v *viper.Viper) {
	defaults := (*Config)(nil).LoadDefaultIfNil()
	v.SetDefault("cf.metric", defaults.CF.Metric)
	v.SetDefault("cf.top_k", defaults.CF.TopK)
	v.SetDefault("cf.min_overlap", defaults.CF.MinOverlap)
	v.SetDefault("group.top_n", defaults.Group.TopN)
	v.SetDefault("group.iterations", defaults.Group.Iterations)
	v.SetDefault("group.kemeny_max_size", defaults.Group.KemenyMaxSize)
}

// LoadConfig loads and validates the configuration from a file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return conf, nil
}
