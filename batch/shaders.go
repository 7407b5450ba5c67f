package batch

// Vertex attribute locations expected by the batch renderers. Custom
// programs set with SetProgram must use the same locations.
//
const (
	PositionLocation = 0
	UVLocation       = 1
	ColorLocation    = 2
)

// VertexShader is the default batch vertex shader.
//
var VertexShader = `#version 330 core
layout(location = 0) in vec2 aPos;
layout(location = 1) in vec2 aUV;
layout(location = 2) in vec4 aColor;

out vec4 vColor;
out vec2 vUV;

uniform mat4 uProjection;

void main()
{
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vColor = aColor;
	vUV = aUV;
}
`

// FragmentShader is the default batch fragment shader. Colors are
// premultiplied.
//
var FragmentShader = `#version 330 core
in vec4 vColor;
in vec2 vUV;

out vec4 fragColor;

uniform sampler2D uTexture;

void main()
{
	fragColor = vColor * texture(uTexture, vUV);
}
`
