package main

import "github.com/nsyo/jsre/internal/host"

// Parse is the parser front end this binary links against. Every
// downstream package — internal/host, internal/resolve, internal/graph,
// internal/check — consumes whatever tree Parse hands back and never
// constructs one itself, so swapping the front end never touches them.
//
// No front end ships in this repository; a build that wants a working
// binary sets this (directly, or from a side-effect import's init) before
// calling Execute. Left nil, the CLI reports a fatal error rather than
// silently analyzing nothing.
var Parse host.ParseFunc
