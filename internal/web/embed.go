// Package web は組み込みのHTMLページと静的アセットを提供する。
package web

import "embed"

// PagesFS はサーバーが配信するHTMLページを埋め込む。
//
//go:embed pages/*.html
var PagesFS embed.FS

// StaticFS は静的アセット（CSS）を埋め込む。
//
//go:embed static/*
var StaticFS embed.FS
