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

package main

import (
	"github.com/groupwise-io/groupwise/base/log"
	"github.com/groupwise-io/groupwise/cf"
	"github.com/groupwise-io/groupwise/config"
	"github.com/groupwise-io/groupwise/dataset"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCommand = &cobra.Command{
	Use:   "groupwise",
	Short: "User-based collaborative filtering and group recommendation over MovieLens ratings",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		log.SetLogger(cmd.Flags(), debug)
	},
}

func init() {
	rootCommand.PersistentFlags().String("config", "", "path of configuration file")
	rootCommand.PersistentFlags().String("ratings", "", "path of ratings.csv")
	rootCommand.PersistentFlags().String("movies", "", "path of movies.csv")
	rootCommand.PersistentFlags().String("metric", "", "similarity metric (pearson, cosine, adjusted_cosine)")
	rootCommand.PersistentFlags().Int("top-k", 0, "neighborhood size for rating prediction")
	rootCommand.PersistentFlags().IntP("top-n", "n", 0, "length of shown recommendation lists")
	rootCommand.PersistentFlags().IntSlice("group", nil, "user ids of the group members")
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	log.AddFlags(rootCommand.PersistentFlags())
}

// loadConfig merges the configuration file, the defaults and the command
// line flag overrides.
func loadConfig(cmd *cobra.Command) *config.Config {
	var conf *config.Config
	if cmd.Flags().Changed("config") {
		path, _ := cmd.Flags().GetString("config")
		var err error
		conf, err = config.LoadConfig(path)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.String("path", path), zap.Error(err))
		}
	} else {
		conf = (*config.Config)(nil).LoadDefaultIfNil()
	}
	if cmd.Flags().Changed("ratings") {
		conf.Data.RatingsPath, _ = cmd.Flags().GetString("ratings")
	}
	if cmd.Flags().Changed("movies") {
		conf.Data.MoviesPath, _ = cmd.Flags().GetString("movies")
	}
	if cmd.Flags().Changed("metric") {
		conf.CF.Metric, _ = cmd.Flags().GetString("metric")
	}
	if cmd.Flags().Changed("top-k") {
		conf.CF.TopK, _ = cmd.Flags().GetInt("top-k")
	}
	if cmd.Flags().Changed("top-n") {
		conf.Group.TopN, _ = cmd.Flags().GetInt("top-n")
	}
	if cmd.Flags().Changed("group") {
		conf.Group.Members, _ = cmd.Flags().GetIntSlice("group")
	}
	if err := conf.Validate(); err != nil {
		log.Logger().Fatal("invalid configuration", zap.Error(err))
	}
	return conf
}

// loadEngine loads the rating matrix and creates the engine.
func loadEngine(conf *config.Config) (*dataset.Matrix, *cf.Engine) {
	matrix, err := dataset.LoadRatings(conf.Data.RatingsPath)
	if err != nil {
		log.Logger().Fatal("failed to load ratings",
			zap.String("path", conf.Data.RatingsPath), zap.Error(err))
	}
	engine, err := cf.NewEngine(matrix, conf.CF)
	if err != nil {
		log.Logger().Fatal("failed to create engine", zap.Error(err))
	}
	return matrix, engine
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
