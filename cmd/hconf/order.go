package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func order(cfg *OrderConfig, cc *cli.Context, args []string) error {
	args, err := oneFile(cfg.Order, "order", cc, &cfg.Overrides, args, 1)
	if err != nil {
		return err
	}
	doc, err := loadDoc(cfg.MainConfig, cc, args[0], &cfg.Overrides)
	if err != nil {
		return err
	}
	for i, p := range doc.Order {
		if _, err := fmt.Fprintf(cc.Out, "%d\t%s\n", i+1, p); err != nil {
			return err
		}
	}
	return nil
}
