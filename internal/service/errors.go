package service

import "errors"

// ErrEditathonNotFound indicates no editathon exists with the given code.
var ErrEditathonNotFound = errors.New("editathon not found")

// ErrArticleNotFound indicates the titled article was not submitted to the editathon.
var ErrArticleNotFound = errors.New("article not found")

// ErrNotJuror indicates the acting user is not a member of the editathon's jury.
var ErrNotJuror = errors.New("user is not a juror of this editathon")

// ErrMalformedMarks indicates a mark payload that does not satisfy the
// editathon's marks configuration.
var ErrMalformedMarks = errors.New("mark payload does not match the marks configuration")
