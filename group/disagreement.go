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

package group

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"modernc.org/mathutil"
)

// KendallTau counts the discordant pairs between two rankings restricted
// to their common elements. Lists must not contain duplicates among the
// common elements; behavior is undefined otherwise.
func KendallTau(a, b []int) int {
	common := mapset.NewSet(a...).Intersect(mapset.NewSet(b...))
	commonA := restrict(a, common)
	commonB := restrict(b, common)
	position := make(map[int]int, len(commonB))
	for i, id := range commonB {
		position[id] = i
	}
	tau := 0
	for i := 0; i < len(commonA)-1; i++ {
		for j := i + 1; j < len(commonA); j++ {
			if position[commonA[i]] > position[commonA[j]] {
				tau++
			}
		}
	}
	return tau
}

// KendallTauNormalized divides the Kendall tau distance by its maximum
// n(n-1)/2 over n common elements, giving a value in [0, 1]. With one or
// zero common elements there is no basis for disagreement and the distance
// is 0.
func KendallTauNormalized(a, b []int) float64 {
	n := mapset.NewSet(a...).Intersect(mapset.NewSet(b...)).Cardinality()
	if n <= 1 {
		return 0
	}
	return float64(KendallTau(a, b)) / (float64(n) * float64(n-1) / 2)
}

// Satisfaction converts disagreement between the group list and one user's
// personal list into a [0, 1] score where 1 means identical ordering.
func Satisfaction(groupList, userList []int) float64 {
	return 1 - KendallTauNormalized(groupList, userList)
}

// NextAlpha derives the blending weight for the next hybrid aggregation
// round from the previous round's member satisfactions. A widening spread
// pushes the next round toward least misery, protecting the least
// satisfied member.
func NextAlpha(satisfactions []float64) float64 {
	minimum, maximum := satisfactions[0], satisfactions[0]
	for _, satisfaction := range satisfactions[1:] {
		minimum = min(minimum, satisfaction)
		maximum = max(maximum, satisfaction)
	}
	return maximum - minimum
}

// disagreement is the spread of per-member Kendall tau distances against a
// candidate ordering.
func disagreement(ordering []int, memberLists [][]int) int {
	minTau, maxTau := 0, 0
	for i, memberList := range memberLists {
		tau := KendallTau(ordering, memberList)
		if i == 0 || tau < minTau {
			minTau = tau
		}
		if i == 0 || tau > maxTau {
			maxTau = tau
		}
	}
	return maxTau - minTau
}

// ModifiedKemenyYoung finds a compromise ranking of n items common to all
// members' lists. Candidates are collected round-robin: the first item of
// each member, then the second of each member, and so on, until n distinct
// common items are found. Every permutation of the candidates is then
// scored by the max-min spread of per-member Kendall tau distances, and
// the first permutation with minimal spread wins. Unlike the classical
// Kemeny-Young objective, minimizing the spread rather than the total
// distance favors fairness between members over aggregate agreement.
//
// The search enumerates n! permutations; n above maxSize is rejected.
func ModifiedKemenyYoung(memberLists [][]int, n, maxSize int) ([]int, error) {
	if len(memberLists) == 0 {
		return nil, errors.New("no member lists")
	}
	if n > maxSize {
		return nil, errors.Errorf("candidate set of %d items exceeds the limit of %d: "+
			"the permutation search is factorial", n, maxSize)
	}
	for i, memberList := range memberLists {
		if mapset.NewSet(memberList...).Cardinality() != len(memberList) {
			return nil, errors.Errorf("member list %d contains duplicate items", i)
		}
	}
	candidates, err := commonCandidates(memberLists, n)
	if err != nil {
		return nil, errors.Trace(err)
	}
	restricted := make([][]int, len(memberLists))
	candidateSet := mapset.NewSet(candidates...)
	for i, memberList := range memberLists {
		restricted[i] = restrict(memberList, candidateSet)
	}
	// Permute candidate positions, starting from the identity so that the
	// input order wins when every ordering scores the same.
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	ordering := make([]int, n)
	var best []int
	minSpread := 0
	mathutil.PermutationFirst(sort.IntSlice(indices))
	for {
		for i, index := range indices {
			ordering[i] = candidates[index]
		}
		spread := disagreement(ordering, restricted)
		if best == nil || spread < minSpread {
			minSpread = spread
			best = append(best[:0], ordering...)
		}
		if !mathutil.PermutationNext(sort.IntSlice(indices)) {
			break
		}
	}
	return best, nil
}

// commonCandidates collects n distinct items present in all member lists
// by round-robin scan over list positions.
func commonCandidates(memberLists [][]int, n int) ([]int, error) {
	common := mapset.NewSet(memberLists[0]...)
	for _, memberList := range memberLists[1:] {
		common = common.Intersect(mapset.NewSet(memberList...))
	}
	longest := 0
	for _, memberList := range memberLists {
		longest = max(longest, len(memberList))
	}
	candidates := make([]int, 0, n)
	collected := mapset.NewSet[int]()
	for position := 0; position < longest; position++ {
		for _, memberList := range memberLists {
			if position >= len(memberList) {
				continue
			}
			itemId := memberList[position]
			if common.Contains(itemId) && !collected.Contains(itemId) {
				collected.Add(itemId)
				candidates = append(candidates, itemId)
				if len(candidates) == n {
					return candidates, nil
				}
			}
		}
	}
	return nil, errors.Errorf("not enough common items: want %d, found %d", n, len(candidates))
}

func restrict(list []int, allowed mapset.Set[int]) []int {
	restricted := make([]int, 0, allowed.Cardinality())
	for _, id := range list {
		if allowed.Contains(id) {
			restricted = append(restricted, id)
		}
	}
	return restricted
}
