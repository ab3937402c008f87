package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/arborview/arborview/pkg/graph"
)

const (
	popupCSS = `
    .popup { pointer-events: none; transition: opacity 0.15s ease; }
    .popup[visibility="hidden"] { opacity: 0; }
    .popup[visibility="visible"] { opacity: 1; }`

	popupJS = `
    const svg = document.querySelector('svg');
    const vb = svg.viewBox.baseVal;
    document.querySelectorAll('.node-text').forEach(el => {
      const id = el.dataset.node;
      const popup = document.querySelector('.popup[data-for="' + CSS.escape(id) + '"]');
      if (!popup) return;
      el.style.cursor = 'pointer';
      const show = () => {
        const box = el.getBBox();
        const pbox = popup.getBBox();
        let x = box.x + box.width/2 - pbox.width/2;
        let y = box.y + box.height + 12;
        if (y + pbox.height > vb.y + vb.height - 10) y = box.y - pbox.height - 8;
        x = Math.max(vb.x + 10, Math.min(x, vb.x + vb.width - pbox.width - 10));
        popup.setAttribute('transform', 'translate(' + x.toFixed(1) + ',' + y.toFixed(1) + ')');
        popup.setAttribute('visibility', 'visible');
      };
      el.addEventListener('mouseenter', show);
      el.addEventListener('click', show);
      el.addEventListener('mouseleave', () => popup.setAttribute('visibility', 'hidden'));
    });`
)

// popup box dimensions in pixels.
const (
	popupWidth  = 220.0
	popupHeight = 56.0
)

// writePopups emits one hidden popup group per node carrying its name and
// description. The script positions and reveals them on hover or click.
func writePopups(buf *bytes.Buffer, l graph.Layout, centers map[string]center) {
	buf.WriteString("  <g class=\"popups\">\n")
	for _, n := range l.Nodes {
		desc := n.Description
		if desc == "" {
			desc = "(no description)"
		}
		fmt.Fprintf(buf, "    <g class=\"popup\" data-for=\"%s\" visibility=\"hidden\">\n",
			html.EscapeString(n.ID))
		fmt.Fprintf(buf,
			"      <rect width=\"%.0f\" height=\"%.0f\" rx=\"4\" fill=\"#222\" opacity=\"0.92\"/>\n",
			popupWidth, popupHeight)
		fmt.Fprintf(buf,
			"      <text x=\"10\" y=\"22\" fill=\"white\" font-size=\"13\" font-weight=\"bold\" font-family=\"sans-serif\">%s</text>\n",
			html.EscapeString(n.ID))
		fmt.Fprintf(buf,
			"      <text x=\"10\" y=\"42\" fill=\"#ccc\" font-size=\"12\" font-family=\"sans-serif\">%s</text>\n",
			html.EscapeString(desc))
		buf.WriteString("    </g>\n")
	}
	buf.WriteString("  </g>\n")
}

func writePopupScript(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", popupCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", popupJS)
}
