package gamepad

// Fixed accessors for the default pool. Each returns a reference into the
// pool, or nil if the plugin was built with a smaller capacity.

func (p *Plugin) Pad1() *Pad { return p.Pad(0) }

func (p *Plugin) Pad2() *Pad { return p.Pad(1) }

func (p *Plugin) Pad3() *Pad { return p.Pad(2) }

func (p *Plugin) Pad4() *Pad { return p.Pad(3) }

func (p *Plugin) Pad5() *Pad { return p.Pad(4) }

func (p *Plugin) Pad6() *Pad { return p.Pad(5) }

func (p *Plugin) Pad7() *Pad { return p.Pad(6) }

func (p *Plugin) Pad8() *Pad { return p.Pad(7) }

func (p *Plugin) Pad9() *Pad { return p.Pad(8) }

func (p *Plugin) Pad10() *Pad { return p.Pad(9) }

func (p *Plugin) Pad11() *Pad { return p.Pad(10) }
