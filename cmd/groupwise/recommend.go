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
	"github.com/groupwise-io/groupwise/cf"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var recommendCommand = &cobra.Command{
	Use:   "recommend",
	Short: "Show the personal top-N recommendations for one user",
	Run: func(cmd *cobra.Command, args []string) {
		conf := loadConfig(cmd)
		userId, _ := cmd.Flags().GetInt("user")
		_, engine := loadEngine(conf)
		scores, err := engine.TopMovies(userId)
		if err != nil {
			log.Logger().Fatal("failed to recommend", zap.Int("user_id", userId), zap.Error(err))
		}
		fmt.Printf("Top-%d %s recommendations for user %d\n",
			conf.Group.TopN, engine.Metric(), userId)
		printScores(cf.TopN(scores, conf.Group.TopN))
	},
}

func init() {
	rootCommand.AddCommand(recommendCommand)
	recommendCommand.Flags().Int("user", 0, "target user id")
	_ = recommendCommand.MarkFlagRequired("user")
}

func printScores(scores []cf.Score) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Rank", "Movie ID", "Predicted Rating")
	for i, score := range scores {
		_ = table.Append([]string{
			strconv.Itoa(i + 1),
			strconv.Itoa(score.ItemId),
			fmt.Sprintf("%.3f", score.Score),
		})
	}
	_ = table.Render()
}
