package fingerprint

// WhatWeb runs the whatweb command line tool against the target.
type WhatWeb struct {
	Binary string
}

func (w *WhatWeb) Name() string { return "whatweb" }

func (w *WhatWeb) binary() string {
	if w.Binary == "" {
		return "whatweb"
	}
	return w.Binary
}
