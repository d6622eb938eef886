package main

import (
	"github.com/yandex/profdiff/profdiff/internal/cmd"
)

func main() {
	cmd.Execute()
}
