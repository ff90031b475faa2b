// Package reciparse extracts structured recipes from web pages, text files,
// images and PDFs. A source is classified, fetched, normalized into a single
// payload and handed to a language model that must answer through a forced
// tool call; the tool input is then validated into a Recipe.
//
// This package contains domain types, interfaces and the pure parts of the
// pipeline following Ben Johnson's Standard Package Layout. Implementations
// live in subdirectories named after their primary dependency (e.g. http/,
// goquery/, anthropic/, gemini/).
package reciparse
