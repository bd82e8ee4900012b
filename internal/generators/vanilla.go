package generators

import (
	"bytes"
	"fmt"
	"text/template"
)

type vanillaGenerator struct{}

func (vanillaGenerator) Framework() string { return "vanilla" }

var vanillaTemplate = template.Must(template.New("vanilla").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Spline 3D Scene</title>
  <style>
    #canvas-container {
      width: 100%;
      height: 100vh;
      display: flex;
      align-items: center;
      justify-content: center;
    }
    .spline-loading {
      color: #666;
      font-family: system-ui, sans-serif;
    }
    .spline-error {
      color: #c00;
      padding: 20px;
      text-align: center;
    }
  </style>
</head>
<body>
  <div id="canvas-container">
    <div class="spline-loading" id="loading">Loading 3D scene...</div>
    <div class="spline-error" id="error" style="display: none;">
      Failed to load scene. Please try again later.
    </div>
  </div>

  <script type="module">
    import { Application } from 'https://unpkg.com/@splinetool/runtime@1.0.93/build/runtime.js';

    const canvas = document.getElementById('canvas-container');
    const loading = document.getElementById('loading');
    const errorDiv = document.getElementById('error');

    const spline = new Application(canvas);
{{if .Variables}}
    const initialVariables = {
{{range .Variables}}      {{.Name}}: {{.JSValue}},
{{end}}    };
{{end}}{{if .IncludeWebSocket}}
    let ws = null;
    try {
      ws = new WebSocket('{{.WebSocketURL}}');
      ws.onopen = () => {
        ws.send(JSON.stringify({ op: 'subscribe', channel: 'spline:variables' }));
      };
      ws.onmessage = (event) => {
        const data = JSON.parse(event.data);
        if (data.channel === 'spline:variables' && spline) {
          spline.setVariables(data.payload);
        }
      };
      ws.onerror = (err) => {
        console.warn('WebSocket connection failed, continuing without real-time updates:', err);
      };
    } catch (err) {
      console.warn('WebSocket not available, continuing without real-time updates');
    }
{{end}}
    spline.load('{{.SceneURL}}')
      .then(() => {
        loading.style.display = 'none';
{{if .Variables}}        spline.setVariables(initialVariables);
{{end}}{{range .EventHandlers}}        spline.addEventListener('{{.Type}}', (e) => {
{{if .TargetObject}}          if (e.target.name === '{{.TargetObject}}') { {{.Code}} }
{{else}}          {{.Code}}
{{end}}        });
{{end}}      })
      .catch((err) => {
        loading.style.display = 'none';
        errorDiv.style.display = 'block';
        console.error('Failed to load Spline scene:', err);
      });
  </script>
</body>
</html>
`))

func (vanillaGenerator) Component(sceneURL string, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := vanillaTemplate.Execute(&buf, componentData{Options: opts.normalize(), SceneURL: sceneURL}); err != nil {
		return "", fmt.Errorf("render vanilla page: %w", err)
	}
	return buf.String(), nil
}

func (vanillaGenerator) InstallInstructions() string {
	return `# Option 1: CDN (no installation needed)
# The generated HTML includes the runtime from unpkg CDN

# Option 2: npm install for self-hosting
npm install @splinetool/runtime`
}

func (vanillaGenerator) UsageExample(componentName, sceneURL string) string {
	return fmt.Sprintf(`<script type="module">
  import { Application } from '@splinetool/runtime';

  const spline = new Application(document.getElementById('canvas'));
  await spline.load('%s');

  spline.addEventListener('mouseDown', (e) => {
    console.log('Clicked:', e.target.name);
  });

  spline.setVariable('myColor', '#ff0000');
</script>`, sceneURL)
}
