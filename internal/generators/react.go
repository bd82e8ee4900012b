package generators

import (
	"bytes"
	"fmt"
	"text/template"
)

type reactGenerator struct{}

func (reactGenerator) Framework() string { return "react" }

type componentData struct {
	Options
	SceneURL string
}

var reactTemplate = template.Must(template.New("react").Parse(`{{if .LazyLoad}}import React, { Suspense, useCallback, useEffect, useRef, useState } from 'react';
{{else}}import React, { useCallback, useEffect, useRef, useState } from 'react';
{{end}}import Spline from '@splinetool/react-spline';

{{if .TypeScript}}interface {{.ComponentName}}Props {
  className?: string;
  style?: React.CSSProperties;
{{if .IncludeErrorBoundary}}  onError?: (error: Error) => void;
{{end}}  onLoad?: () => void;
}

{{end}}export function {{.ComponentName}}({ className, style{{if .IncludeErrorBoundary}}, onError{{end}}, onLoad }{{if .TypeScript}}: {{.ComponentName}}Props{{end}}) {
  const [isLoading, setIsLoading] = useState(true);
{{if .IncludeErrorBoundary}}  const [hasError, setHasError] = useState(false);
{{end}}  const splineRef = useRef{{if .TypeScript}}<any>{{end}}(null);
{{if .IncludeWebSocket}}
  useEffect(() => {
    const ws = new WebSocket('{{.WebSocketURL}}');
    ws.onopen = () => ws.send(JSON.stringify({ op: 'subscribe', channel: 'spline:variables' }));
    ws.onmessage = (event{{if .TypeScript}}: MessageEvent{{end}}) => {
      const msg = JSON.parse(event.data);
      if (msg.channel === 'spline:variables' && splineRef.current) {
        splineRef.current.setVariables(msg.payload);
      }
    };
    return () => ws.close();
  }, []);
{{end}}{{if .Variables}}
  const initialVariables = {
{{range .Variables}}    {{.Name}}: {{.JSValue}},
{{end}}  };
{{end}}
  const handleLoad = useCallback((splineApp{{if .TypeScript}}: any{{end}}) => {
    splineRef.current = splineApp;
{{range .EventHandlers}}    splineApp.addEventListener('{{.Type}}', (e{{if $.TypeScript}}: any{{end}}) => {
{{if .TargetObject}}      if (e.target.name === '{{.TargetObject}}') { {{.Code}} }
{{else}}      {{.Code}}
{{end}}    });
{{end}}{{if .Variables}}    splineApp.setVariables(initialVariables);
{{end}}    setIsLoading(false);
    onLoad?.();
  }, [onLoad]);
{{if .IncludeErrorBoundary}}
  const handleError = useCallback((error{{if .TypeScript}}: Error{{end}}) => {
    setHasError(true);
    setIsLoading(false);
    onError?.(error);
    console.error('Spline scene error:', error);
  }, [onError]);

  if (hasError) {
    return (
      <div className="spline-error" style={{"{{"}} ...style, padding: '20px', textAlign: 'center' {{"}}"}} role="alert">
        <p>Failed to load 3D scene. Please try again later.</p>
      </div>
    );
  }
{{end}}
  return (
{{if .LazyLoad}}    <Suspense fallback={<{{.ComponentName}}Fallback />}>
      <Spline scene="{{.SceneURL}}" onLoad={handleLoad}{{if .IncludeErrorBoundary}} onError={handleError}{{end}} className={className} style={style} />
    </Suspense>
{{else}}    <Spline scene="{{.SceneURL}}" onLoad={handleLoad}{{if .IncludeErrorBoundary}} onError={handleError}{{end}} className={className} style={style} />
{{end}}  );
}
{{if .LazyLoad}}
function {{.ComponentName}}Fallback() {
  return (
    <div
      className="spline-loading"
      style={{"{{"}} display: 'flex', alignItems: 'center', justifyContent: 'center', minHeight: '200px' {{"}}"}}
      aria-busy="true"
      aria-label="Loading 3D scene"
    >
      <div className="spline-spinner" />
    </div>
  );
}
{{end}}`))

func (reactGenerator) Component(sceneURL string, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := reactTemplate.Execute(&buf, componentData{Options: opts.normalize(), SceneURL: sceneURL}); err != nil {
		return "", fmt.Errorf("render react component: %w", err)
	}
	return buf.String(), nil
}

func (reactGenerator) InstallInstructions() string {
	return "npm install @splinetool/react-spline @splinetool/runtime"
}

func (reactGenerator) UsageExample(componentName, sceneURL string) string {
	return fmt.Sprintf(`import { %[1]s } from './components/%[1]s';

// Basic usage
<%[1]s />

// With custom styling
<%[1]s className="hero-scene" style={{ height: '500px' }} />

// With error handling
<%[1]s
  onError={(error) => console.error('Scene failed:', error)}
  onLoad={() => console.log('Scene loaded!')}
/>`, componentName)
}
