// Package validated provides a composable validation engine for structured
// data. A validation run produces either an accepted value or an ordered,
// accumulated list of typed failures, never an error for a validation
// outcome.
//
// It offers:
//
//   - An accumulating result algebra via Validated[T] (Valid/Invalid, Map,
//     Combine, ValueOr) that concatenates failures instead of short-circuiting.
//   - First-class validator contracts: ValueValidator[T] for a single value
//     and EntityValidator[T] for a whole object, both context-aware and safe
//     for unlimited concurrent use once built.
//   - Traversal adapters for members, nested entities, collections (per-item
//     and whole-collection) and bounded self-referential recursion.
//
// Design policy:
//   - Keep the result algebra, contracts and traversal adapters in the root
//     package; place the static and dynamic composers under dsl/, the rule
//     configuration model and resolver under rules/, configuration sources
//     under rulesource/ and message translation under i18n/.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	check := dsl.New[Person]().
//		Add(validated.ForMember("Name", "Name", getName, nameRule)).
//		MustBuild()
//	res := check(ctx, person, "Person", validated.DefaultOptions())
package validated
