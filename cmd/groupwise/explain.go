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
	"fmt"
	"os"
	"strconv"

	"github.com/groupwise-io/groupwise/base/log"
	"github.com/groupwise-io/groupwise/config"
	"github.com/groupwise-io/groupwise/dataset"
	"github.com/groupwise-io/groupwise/explain"
	"github.com/groupwise-io/groupwise/group"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var explainCommand = &cobra.Command{
	Use:   "explain",
	Short: "Answer why-not questions about the group recommendations",
}

var explainMovieCommand = &cobra.Command{
	Use:   "movie TITLE",
	Short: "Why wasn't this movie in the recommendations?",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		explainer := loadExplainer(cmd)
		movieId, exist := explainer.FindMovie(args[0])
		if !exist {
			fmt.Println("The movie does not exist in the database.")
			return
		}
		fmt.Printf("Why wasn't movie %s in the recommendations?\n", args[0])
		printExplanations(explainer.WhyNotMovie(movieId))
	},
}

var explainGenreCommand = &cobra.Command{
	Use:   "genre GENRE",
	Short: "Why not more movies of this genre?",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		explainer := loadExplainer(cmd)
		fmt.Printf("Why not more %s movies?\n", args[0])
		printExplanations(explainer.WhyNotGenre(args[0]))
	},
}

var explainRankCommand = &cobra.Command{
	Use:   "rank TITLE",
	Short: "Why isn't this movie ranked first?",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		explainer := loadExplainer(cmd)
		movieId, exist := explainer.FindMovie(args[0])
		if !exist {
			fmt.Println("The movie does not exist in the database.")
			return
		}
		fmt.Printf("Why not rank %s first?\n", args[0])
		printExplanations(explainer.WhyNotFirst(movieId))
	},
}

func init() {
	rootCommand.AddCommand(explainCommand)
	explainCommand.AddCommand(explainMovieCommand)
	explainCommand.AddCommand(explainGenreCommand)
	explainCommand.AddCommand(explainRankCommand)
}

// loadExplainer runs the whole pipeline up to the average-aggregated group
// list and joins it with the movie metadata.
func loadExplainer(cmd *cobra.Command) *explain.Explainer {
	conf := loadConfig(cmd)
	if conf.Data.MoviesPath == "" {
		log.Logger().Fatal("explain requires the movies.csv path")
	}
	movies, err := dataset.LoadMovies(conf.Data.MoviesPath)
	if err != nil {
		log.Logger().Fatal("failed to load movies",
			zap.String("path", conf.Data.MoviesPath), zap.Error(err))
	}
	matrix, engine := loadEngine(conf)
	aggregator, err := group.NewAggregator(engine, matrix, conf.Group.Members)
	if err != nil {
		log.Logger().Fatal("failed to create aggregator", zap.Error(err))
	}
	recommendations, err := aggregator.MemberRecommendations()
	if err != nil {
		log.Logger().Fatal("failed to compute member recommendations", zap.Error(err))
	}
	aggregation, err := aggregator.Aggregate(recommendations)
	if err != nil {
		log.Logger().Fatal("failed to aggregate", zap.Error(err))
	}
	explainer := explain.NewExplainer(movies, conf.Group.Members,
		recommendations, aggregation.Average(), conf.Group.TopN)
	printGroupList(explainer, conf)
	return explainer
}

func printGroupList(explainer *explain.Explainer, conf *config.Config) {
	fmt.Printf("Top-%d average recommendations for group %v\n",
		conf.Group.TopN, conf.Group.Members)
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Rank", "Movie ID", "Title", "Average Rating")
	ranking := explainer.Ranking()
	for i := 0; i < conf.Group.TopN && i < len(ranking); i++ {
		movieId := ranking[i]
		_ = table.Append([]string{
			strconv.Itoa(i + 1),
			strconv.Itoa(movieId),
			explainer.Title(movieId),
			fmt.Sprintf("%.2f", explainer.AvgRating(movieId)),
		})
	}
	_ = table.Render()
}

func printExplanations(explanations []string) {
	for i, explanation := range explanations {
		fmt.Printf("%d. %s\n", i+1, explanation)
	}
}
