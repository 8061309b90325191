// Package channel defines the closed set of delivery channels and the
// per-channel capabilities the pipeline depends on: rendering strategy,
// template path conventions, external/in-product classification and
// recipient address derivation.
package channel
