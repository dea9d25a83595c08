package renderer

const meshVertexShader = `#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uViewProj;
uniform vec3 uOrigin;

out vec3 vNormal;
out vec2 vTexCoord;

void main() {
    vNormal = aNormal;
    vTexCoord = aTexCoord;
    gl_Position = uViewProj * vec4(aPosition + uOrigin, 1.0);
}
`

const meshFragmentShader = `#version 410 core

in vec3 vNormal;
in vec2 vTexCoord;

uniform vec4 uColor;
uniform vec3 uLightDir;
uniform vec3 uAmbient;
uniform vec3 uDiffuse;
uniform float uGrid;

out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    // Two-sided so inverted fields stay lit.
    float diff = abs(dot(n, uLightDir));
    vec3 color = uColor.rgb * (uAmbient + uDiffuse * diff);

    if (uGrid > 0.0) {
        vec2 g = abs(fract(vTexCoord * uGrid) - 0.5);
        float line = step(0.47, max(g.x, g.y));
        color = mix(color, color * 0.85, line);
    }
    FragColor = vec4(color, uColor.a);
}
`

const lineVertexShader = `#version 410 core

layout (location = 0) in vec3 aPosition;

uniform mat4 uViewProj;

void main() {
    gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

const lineFragmentShader = `#version 410 core

uniform vec4 uColor;

out vec4 FragColor;

void main() {
    FragColor = uColor;
}
`
