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

	"github.com/groupwise-io/groupwise/base/log"
	"github.com/groupwise-io/groupwise/cf"
	"github.com/groupwise-io/groupwise/config"
	"github.com/groupwise-io/groupwise/group"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var groupCommand = &cobra.Command{
	Use:   "group",
	Short: "Aggregate the group members' recommendations into one group list",
	Run: func(cmd *cobra.Command, args []string) {
		conf := loadConfig(cmd)
		if cmd.Flags().Changed("iterations") {
			conf.Group.Iterations, _ = cmd.Flags().GetInt("iterations")
		}
		strategy, _ := cmd.Flags().GetString("strategy")
		matrix, engine := loadEngine(conf)
		aggregator, err := group.NewAggregator(engine, matrix, conf.Group.Members)
		if err != nil {
			log.Logger().Fatal("failed to create aggregator", zap.Error(err))
		}
		recommendations := memberRecommendations(engine, conf.Group.Members)
		switch strategy {
		case "average", "least-misery":
			aggregation, err := aggregator.Aggregate(recommendations)
			if err != nil {
				log.Logger().Fatal("failed to aggregate", zap.Error(err))
			}
			list := aggregation.Average()
			if strategy == "least-misery" {
				list = aggregation.LeastMisery()
			}
			fmt.Printf("Top-%d %s recommendations for group %v\n",
				conf.Group.TopN, strategy, conf.Group.Members)
			printScores(cf.TopN(list, conf.Group.TopN))
		case "hybrid":
			runHybrid(aggregator, recommendations, conf)
		case "kemeny-young":
			runKemenyYoung(recommendations, conf)
		default:
			log.Logger().Fatal("unknown strategy", zap.String("strategy", strategy))
		}
	},
}

func init() {
	rootCommand.AddCommand(groupCommand)
	groupCommand.Flags().String("strategy", "average",
		"aggregation strategy (average, least-misery, hybrid, kemeny-young)")
	groupCommand.Flags().Int("iterations", 0, "rounds of sequential hybrid aggregation")
}

// memberRecommendations computes each member's full personal ranking. This
// is the dominant cost of a run, hence the progress bar.
func memberRecommendations(engine *cf.Engine, members []int) map[int][]cf.Score {
	bar := progressbar.Default(int64(len(members)), "member recommendations")
	recommendations := make(map[int][]cf.Score, len(members))
	for _, userId := range members {
		scores, err := engine.TopMovies(userId)
		if err != nil {
			log.Logger().Fatal("failed to recommend", zap.Int("user_id", userId), zap.Error(err))
		}
		recommendations[userId] = scores
		_ = bar.Add(1)
	}
	return recommendations
}

func runHybrid(aggregator *group.Aggregator, recommendations map[int][]cf.Score, conf *config.Config) {
	iterations := conf.Group.Iterations
	rounds, err := aggregator.SequentialHybrid(recommendations, iterations, conf.Group.TopN)
	if err != nil {
		log.Logger().Fatal("failed to run hybrid aggregation", zap.Error(err))
	}
	for i, round := range rounds {
		fmt.Printf("\n## Iteration %d, alpha=%.2f ##\n", i+1, round.Alpha)
		fmt.Printf("Top-%d hybrid recommendations for group %v\n",
			conf.Group.TopN, conf.Group.Members)
		printScores(cf.TopN(round.Recommendations, conf.Group.TopN))
		for _, userId := range aggregator.Members() {
			fmt.Printf("satisfaction of user %d: %.3f\n", userId, round.Satisfactions[userId])
		}
	}
}

func runKemenyYoung(recommendations map[int][]cf.Score, conf *config.Config) {
	memberLists := make([][]int, 0, len(conf.Group.Members))
	for _, userId := range conf.Group.Members {
		memberLists = append(memberLists, cf.Items(recommendations[userId]))
	}
	consensus, err := group.ModifiedKemenyYoung(memberLists, conf.Group.TopN, conf.Group.KemenyMaxSize)
	if err != nil {
		log.Logger().Fatal("failed to run Kemeny-Young aggregation", zap.Error(err))
	}
	fmt.Printf("Modified Kemeny-Young consensus for group %v\n", conf.Group.Members)
	for i, itemId := range consensus {
		fmt.Printf("%d. %d\n", i+1, itemId)
	}
}
