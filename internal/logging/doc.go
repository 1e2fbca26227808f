// Package logging wires log/slog with the handlers used across dupescan: a
// human-oriented console handler and a machine-oriented JSON handler, chosen
// by configuration. Component loggers attach a stable "component" attribute
// so console lines read "TIME LEVEL component: message key=val".
package logging
