package markdown

// DefaultStyle is the glamour style used for build summaries in a terminal.
var DefaultStyle = []byte(`{
  "document": {
    "block_prefix": "\n",
    "block_suffix": "\n",
    "margin": 0
  },
  "paragraph": {
    "block_suffix": "\n"
  },
  "list": {
    "level_indent": 2
  },
  "heading": {
    "block_suffix": "\n",
    "color": "#00A3E0",
    "bold": true
  },
  "h2": {
    "prefix": "## ",
    "color": "#00A3E0",
    "bold": true
  },
  "h3": {
    "prefix": "### ",
    "color": "#FFA500",
    "bold": true
  },
  "strong": {
    "bold": true
  },
  "emph": {
    "italic": true
  },
  "hr": {
    "color": "#CBD5E0",
    "format": "\n--------\n"
  },
  "item": {
    "block_prefix": "• "
  },
  "code": {
    "color": "#E2E8F0"
  },
  "code_block": {
    "color": "#A0AEC0",
    "margin": 2
  }
}`)
