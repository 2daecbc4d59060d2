// Package config provides configuration management for grouptalk.
//
// Configuration is layered. Later sources override earlier ones:
//
//  1. Defaults compiled into the binary.
//  2. User configuration (~/.config/grouptalk/config.yaml).
//  3. Project configuration (./.grouptalk/config.yaml).
//
// Example:
//
//	user:
//	  id: "me"
//	  nickname: "Me"
//	backend:
//	  mode: "remote"          # or "memory"
//	  serverURL: "http://127.0.0.1:8088"
//	badge:
//	  maxCount: 99
//	  overflowLabel: "99+"
//	theme:
//	  dark: true
//	simulator:
//	  interval: 8s
//
// Zero values in an overlay leave the base value untouched, except for the
// boolean theme.dark and simulator.enabled fields, which are taken from the
// overlay only when it sets them explicitly.
package config
