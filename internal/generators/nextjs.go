package generators

import (
	"bytes"
	"fmt"
	"text/template"
)

type nextjsGenerator struct{}

func (nextjsGenerator) Framework() string { return "nextjs" }

// Next.js needs the Spline runtime loaded client-side only, so the component
// is marked 'use client' and the library is pulled in with next/dynamic.
var nextjsTemplate = template.Must(template.New("nextjs").Parse(`'use client';

import React, { Suspense, useCallback, useEffect, useRef, useState } from 'react';
import dynamic from 'next/dynamic';

const Spline = dynamic(() => import('@splinetool/react-spline'), {
  ssr: false,
  loading: () => <{{.ComponentName}}Loading />,
});

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
    <Spline scene="{{.SceneURL}}" onLoad={handleLoad}{{if .IncludeErrorBoundary}} onError={handleError}{{end}} className={className} style={style} />
  );
}

function {{.ComponentName}}Loading() {
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
{{if .SSRPlaceholder}}
export function {{.ComponentName}}Placeholder() {
  return (
    <div className="spline-placeholder" style={{"{{"}} minHeight: '200px' {{"}}"}} aria-hidden="true" />
  );
}
{{end}}`))

func (nextjsGenerator) Component(sceneURL string, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := nextjsTemplate.Execute(&buf, componentData{Options: opts.normalize(), SceneURL: sceneURL}); err != nil {
		return "", fmt.Errorf("render nextjs component: %w", err)
	}
	return buf.String(), nil
}

func (nextjsGenerator) InstallInstructions() string {
	return "npm install @splinetool/react-spline @splinetool/runtime"
}

func (nextjsGenerator) UsageExample(componentName, sceneURL string) string {
	return fmt.Sprintf(`// app/page.tsx
import { %[1]s } from '@/components/%[1]s';

export default function Page() {
  return (
    <main>
      <%[1]s style={{ height: '500px' }} />
    </main>
  );
}`, componentName)
}
