package cli

type ModeCmd struct {
	Mode string `arg:"" enum:"weighted,unweighted" help:"weighted or unweighted."`
}

func (c *ModeCmd) Run(ctx *Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	ctx.Store.SetWeighted(c.Mode == "weighted")
	ctx.printf("✓ Final grade is now %s\n", c.Mode)
	return nil
}
