// Package planner turns an assignment's due date and effort estimate into a
// concrete sequence of study time slots. The heuristic allocator is a pure,
// greedy first-fit search over fixed daily preferred windows; Service wraps
// it with an optional generative backend that degrades to the heuristic on
// any failure.
package planner
